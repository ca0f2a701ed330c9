package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/sirupsen/logrus"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{"time", "index", "mass", "x", "y", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string           `json:"id"`
	Scenario     string           `json:"scenario"`
	Timestamp    time.Time        `json:"timestamp"`
	Seed         int64            `json:"seed"`
	Dt           float64          `json:"dt"`
	Duration     float64          `json:"duration"`
	Integrator   string           `json:"integrator"`
	Bodies       int              `json:"bodies"`
	G            float64          `json:"g"`
	Accuracy     Float            `json:"accuracy"`
	Softening    float64          `json:"softening"`
	Offset       float64          `json:"traversal_offset"`
	Merge        bool             `json:"merge"`
	MergeDensity float64          `json:"merge_density,omitempty"`
	StepsTaken   int              `json:"steps_taken"`
	Merged       int              `json:"merged"`
	EnergyDrift  Float            `json:"energy_drift"`
	Metrics      map[string]Float `json:"metrics"`
}

// NewMetadata describes a run of cfg starting with bodies bodies.
func NewMetadata(cfg *config.Config, bodies int) RunMetadata {
	return RunMetadata{
		Scenario:     cfg.Scenario,
		Seed:         cfg.Seed,
		Dt:           cfg.Dt,
		Duration:     cfg.Duration,
		Integrator:   cfg.Integrator,
		Bodies:       bodies,
		G:            cfg.Gravity.G,
		Accuracy:     Float(cfg.Gravity.Accuracy),
		Softening:    cfg.Gravity.Softening,
		Offset:       cfg.Gravity.TraversalOffset,
		Merge:        cfg.Merge.Enabled,
		MergeDensity: cfg.Merge.Density,
	}
}

func (m RunMetadata) GravityParams() gravity.Params {
	return gravity.Params{
		G:               m.G,
		Accuracy:        float64(m.Accuracy),
		Softening:       m.Softening,
		TraversalOffset: m.Offset,
	}
}

// Save writes a run directory holding metadata.json and frames.csv. The run
// outcome fields of meta are filled from result. An empty ID is generated
// from the scenario name and the current time.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Scenario, now.UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	meta.StepsTaken = result.StepsTaken
	meta.Merged = result.Merged
	meta.EnergyDrift = Float(result.EnergyDrift)
	meta.Metrics = make(map[string]Float, len(result.Metrics))
	for name, v := range result.Metrics {
		meta.Metrics[name] = Float(v)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}

	logrus.Debugf("storage: saved %s (%d frames)", meta.ID, len(result.Frames))
	return meta.ID, nil
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			logrus.Debugf("storage: skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads the frames of a run back. Values are stored at full
// precision so restored snapshots are bit-identical to the saved ones.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readFrames(file)
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(framesHeader); err != nil {
		return err
	}

	for _, f := range frames {
		st := f.State
		for i := range st.Mass {
			row := []string{
				formatFloat(f.Time),
				strconv.Itoa(i),
				formatFloat(st.Mass[i]),
				formatFloat(st.X[i]),
				formatFloat(st.Y[i]),
				formatFloat(st.VX[i]),
				formatFloat(st.VY[i]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// readFrames groups rows into frames. A row with index 0 opens a new frame,
// so frames without bodies are not recovered.
func readFrames(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(framesHeader)

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []sim.Frame{}, nil
		}
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		var vals [7]float64
		for j, field := range record {
			if j == 1 {
				continue
			}
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("frames line %d: %w", line, err)
			}
		}
		index, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("frames line %d: %w", line, err)
		}

		if index == 0 || len(frames) == 0 {
			frames = append(frames, sim.Frame{Time: vals[0]})
		}
		f := &frames[len(frames)-1]
		if index != f.State.Len() {
			return nil, fmt.Errorf("frames line %d: index %d out of sequence", line, index)
		}
		f.State = appendBody(f.State, vals)
	}
	return frames, nil
}

func appendBody(s universe.Snapshot, vals [7]float64) universe.Snapshot {
	s.Mass = append(s.Mass, vals[2])
	s.X = append(s.X, vals[3])
	s.Y = append(s.Y, vals[4])
	s.VX = append(s.VX, vals[5])
	s.VY = append(s.VY, vals[6])
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
