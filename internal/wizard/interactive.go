// Package wizard holds the interactive prompts used when a command needs
// input it was not given.
package wizard

import (
	"os"

	"golang.org/x/term"
)

// Interactive gates prompts on a terminal being attached.
type Interactive struct {
	enabled bool
	isTTY   func() bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
		isTTY:   IsTerminal,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdin and stdout are terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && i.isTTY()
}

// PromptLanguages runs the language picker if interactive mode is available.
// ok is false when prompting was not possible.
func (i *Interactive) PromptLanguages() (langs []string, ok bool, err error) {
	if !i.CanInteract() {
		return nil, false, nil
	}
	langs, err = RunLanguagePicker()
	if err != nil {
		return nil, true, err
	}
	return langs, true, nil
}
