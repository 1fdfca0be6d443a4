package store

import "fmt"

// Mode is an access mode for Open.
type Mode string

// Access modes
const (
	// ModeRead opens an existing store read-only.
	ModeRead Mode = "r"
	// ModeReadWrite opens an existing store for reading and writing.
	ModeReadWrite Mode = "r+"
	// ModeAppend opens for reading and writing, creating the root if missing.
	ModeAppend Mode = "a"
	// ModeOverwrite removes every key and creates a fresh root.
	ModeOverwrite Mode = "w"
	// ModeCreate creates a fresh root and fails if anything exists.
	ModeCreate Mode = "w-"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeRead, ModeReadWrite, ModeAppend, ModeOverwrite, ModeCreate:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Writable reports whether the mode allows mutation.
func (m Mode) Writable() bool {
	return m != ModeRead
}
