package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

func TestViewport_PinsToBottom(t *testing.T) {
	v := NewViewport(40, 3)
	v.SetContent(numberedLines(10))

	out := strings.Split(v.Render(), "\n")
	assert.Equal(t, []string{"line 7", "line 8", "line 9"}, out)

	// New content keeps the view pinned at the bottom.
	v.SetContent(numberedLines(12))
	out = strings.Split(v.Render(), "\n")
	assert.Equal(t, "line 11", out[2])
}

func TestViewport_ScrollUpReleasesPin(t *testing.T) {
	v := NewViewport(40, 3)
	v.SetContent(numberedLines(10))

	v.ScrollUp(2)
	out := strings.Split(v.Render(), "\n")
	assert.Equal(t, "line 5", out[0])

	// While unpinned, growing content doesn't move the view.
	v.SetContent(numberedLines(12))
	out = strings.Split(v.Render(), "\n")
	assert.Equal(t, "line 5", out[0])

	// Scrolling back to the bottom re-pins.
	v.End()
	out = strings.Split(v.Render(), "\n")
	assert.Equal(t, "line 11", out[2])
}

func TestViewport_ShortContentPadsToHeight(t *testing.T) {
	v := NewViewport(40, 4)
	v.SetContent("only line")

	out := strings.Split(v.Render(), "\n")
	assert.Len(t, out, 4)
	assert.Equal(t, "only line", out[0])
	assert.Equal(t, "", out[3])
}

func TestViewport_WrapsLongLines(t *testing.T) {
	v := NewViewport(10, 5)
	v.SetContent("alpha beta gamma delta")

	out := v.Render()
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
	assert.Contains(t, out, "alpha beta")
}

func TestViewport_ScrollClamping(t *testing.T) {
	v := NewViewport(40, 5)
	v.SetContent(numberedLines(3))

	v.ScrollUp(100)
	assert.Equal(t, 0, v.scrollY)

	v.ScrollDown(100)
	assert.Equal(t, 0, v.scrollY) // content shorter than viewport
}
