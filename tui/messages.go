// messages.go defines the Bubble Tea messages used for async
// communication. Provider streaming runs in a background worker and
// hands fragments back to the update loop one message at a time, so
// the UI never blocks and fragment order is preserved.
package tui

// streamStartedMsg carries the fragment channel of a new provider call.
type streamStartedMsg struct {
	ch <-chan string
}

// streamChunkMsg delivers one fragment; the channel rides along so the
// pump command can re-arm itself.
type streamChunkMsg struct {
	text string
	ch   <-chan string
}

// streamDoneMsg signals that the fragment channel closed.
type streamDoneMsg struct{}
