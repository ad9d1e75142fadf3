// Where: internal/infra/ui/ui.go
// What: User-facing output surface shared by commands and use cases.
// Why: Use cases report progress and warnings without knowing about terminals.
package ui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// KeyValue is a key/value pair rendered inside a block.
type KeyValue struct {
	Key   string
	Value any
}

// UserInterface exposes high-level output helpers used by use cases.
type UserInterface interface {
	Info(msg string)
	Warn(msg string)
	Success(msg string)
	Block(emoji, title string, rows []KeyValue)
}

// NewConsoleUI returns a UserInterface writing through a Console.
func NewConsoleUI(out io.Writer, emojiEnabled bool) UserInterface {
	return NewWithEmoji(out, emojiEnabled)
}

// Discard returns a UserInterface that drops all output.
func Discard() UserInterface {
	return NewWithEmoji(io.Discard, false)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// EmojiEnabled decides emoji output: an explicit override wins, otherwise
// emoji are shown only on terminals.
func EmojiEnabled(out io.Writer, override *bool) bool {
	if override != nil {
		return *override
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return IsTerminal(file)
}
