// Package viz draws SIR trajectories in the terminal.
//
//   - [PlotSeries]: static multi-line chart of S, I and R
//   - [Model]: Bubble Tea program that replays a run point by point
//   - [Canvas]: Braille canvas the replay draws its curves on
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from t=0
//	+/-   - Faster/slower playback
//	←/→   - Step back/forward while paused
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
