// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize emoji resolution and UserInterface construction.
package command

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/poruru/multipub/internal/infra/ui"
)

var errEmojiFlagConflict = errors.New("--emoji and --no-emoji cannot be used together")

func newUI(out io.Writer, cli CLI) (ui.UserInterface, error) {
	enabled, err := resolveEmojiEnabled(out, cli)
	if err != nil {
		return nil, err
	}
	return ui.NewConsoleUI(out, enabled), nil
}

func resolveEmojiEnabled(out io.Writer, cli CLI) (bool, error) {
	if cli.Emoji && cli.NoEmoji {
		return false, errEmojiFlagConflict
	}
	var override *bool
	switch {
	case cli.Emoji:
		override = boolPtr(true)
	case cli.NoEmoji:
		override = boolPtr(false)
	case strings.TrimSpace(os.Getenv("NO_EMOJI")) != "":
		override = boolPtr(false)
	case strings.ToLower(strings.TrimSpace(os.Getenv("TERM"))) == "dumb":
		override = boolPtr(false)
	}
	return ui.EmojiEnabled(out, override), nil
}

func boolPtr(v bool) *bool {
	return &v
}
