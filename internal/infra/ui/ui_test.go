package ui

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestConsoleWithoutEmojiUsesTextPrefixes(t *testing.T) {
	var buf bytes.Buffer
	c := NewWithEmoji(&buf, false)
	c.Warn("Publication with coordinate 'g:a:1' not published.")
	c.Success("done")
	out := buf.String()
	if !strings.Contains(out, "[warn] Publication with coordinate 'g:a:1' not published.") {
		t.Fatalf("unexpected warn output: %q", out)
	}
	if !strings.Contains(out, "[ok] done") {
		t.Fatalf("unexpected success output: %q", out)
	}
}

func TestConsoleBlock(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf)
	c.Block("📦", "Publish summary", []KeyValue{{Key: "Succeeded", Value: 3}})
	out := buf.String()
	if !strings.HasPrefix(out, "\n📦 Publish summary\n") {
		t.Fatalf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "Succeeded:") || !strings.HasSuffix(out, "3\n\n") {
		t.Fatalf("unexpected rows: %q", out)
	}
}

func TestConsoleConcurrentLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	c := NewWithEmoji(&buf, false)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Warn("line")
		}()
	}
	wg.Wait()
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line != "[warn] line" {
			t.Fatalf("interleaved output: %q", line)
		}
	}
}

func TestEmojiEnabled(t *testing.T) {
	yes, no := true, false
	if !EmojiEnabled(&bytes.Buffer{}, &yes) {
		t.Fatal("override true must win")
	}
	if EmojiEnabled(os.Stdout, &no) {
		t.Fatal("override false must win")
	}
	if EmojiEnabled(&bytes.Buffer{}, nil) {
		t.Fatal("non-file writers are not terminals")
	}

	prev := IsTerminal
	IsTerminal = func(*os.File) bool { return true }
	t.Cleanup(func() { IsTerminal = prev })
	if !EmojiEnabled(os.Stdout, nil) {
		t.Fatal("expected emoji on a terminal")
	}
}
