package tui

import "pixflow/internal/batch"

// ProgressSink adapts a batch progress callback to the model's event
// channel. A send gives up as soon as done closes, so a UI that exits
// early (interrupt, TTY open failure) never stalls the running batch.
func ProgressSink(events chan<- batch.ProgressEvent, done <-chan struct{}) batch.ProgressFunc {
	return func(event batch.ProgressEvent) {
		select {
		case events <- event:
		case <-done:
		}
	}
}
