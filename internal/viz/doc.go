// Package viz draws a running universe in the terminal.
//
//   - [Canvas]: Braille sub-pixel canvas
//   - [Viewport]: projection from simulation to canvas coordinates
//   - [Model]: Bubble Tea program stepping and drawing a universe live
//   - [Recorder]: animated GIF capture of canvas frames
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Zoom in/out
//	F     - Fit view to bodies
//	A/Z   - Raise/lower accuracy threshold
//	M     - Toggle merging
//	T     - Toggle trails
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
