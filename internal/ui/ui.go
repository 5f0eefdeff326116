package ui

// UI receives transcript lines and status updates from a running session.
type UI interface {
	UpdateStatus(status string)
	Transcript(line string)
}

// SilentUI discards everything; used by headless one-shot commands.
type SilentUI struct{}

func (SilentUI) UpdateStatus(status string) {}
func (SilentUI) Transcript(line string)     {}
