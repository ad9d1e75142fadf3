// Where: internal/infra/ui/console.go
// What: Console output helpers for consistent CLI UX.
// Why: Standardize emojis, indentation, and structure across commands.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console provides helper methods for formatted output. Writes are
// serialized so lines from parallel publish tasks never interleave.
type Console struct {
	Out          io.Writer
	EmojiEnabled bool

	mu sync.Mutex
}

// New creates a new Console writing to the provided writer.
func New(out io.Writer) *Console {
	return &Console{Out: out, EmojiEnabled: true}
}

// NewWithEmoji creates a new Console with explicit emoji settings.
func NewWithEmoji(out io.Writer, enabled bool) *Console {
	return &Console{Out: out, EmojiEnabled: enabled}
}

// Header prints a section header with an emoji.
// Example: 📦 Publish summary
func (c *Console) Header(emoji, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header(emoji, title)
}

func (c *Console) header(emoji, title string) {
	fmt.Fprintf(c.Out, "%s%s\n", c.emojiPrefix(emoji), title)
}

// Block prints a header followed by indented key/value rows, padded by
// blank lines, as one write.
func (c *Console) Block(emoji, title string, rows []KeyValue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.Out)
	c.header(emoji, title)
	for _, kv := range rows {
		fmt.Fprintf(c.Out, "   %-30s %v\n", kv.Key+":", kv.Value)
	}
	fmt.Fprintln(c.Out)
}

// Item prints a key-value item with indentation.
// Example:    Key: Value.
func (c *Console) Item(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.Out, "   %-30s %v\n", key+":", value)
}

// Success prints a success message with a checkmark.
func (c *Console) Success(msg string) {
	c.prefixed("✅", "[ok] ", msg)
}

// Info prints an info message.
func (c *Console) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.Out, "%s\n", msg)
}

// Warn prints a warning message with an emoji.
func (c *Console) Warn(msg string) {
	c.prefixed("⚠️", "[warn] ", msg)
}

func (c *Console) prefixed(emoji, fallback, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := c.emojiPrefix(emoji)
	if prefix == "" {
		prefix = fallback
	}
	fmt.Fprintf(c.Out, "%s%s\n", prefix, msg)
}

func (c *Console) emojiPrefix(emoji string) string {
	if !c.EmojiEnabled || strings.TrimSpace(emoji) == "" {
		return ""
	}
	return emoji + " "
}
