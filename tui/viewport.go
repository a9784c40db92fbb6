// viewport.go provides the scrollable transcript area. Chat content is
// always word-wrapped to the terminal width; scrolling is vertical only.
package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Viewport is a scrollable, wrapping text area.
type Viewport struct {
	width   int
	height  int
	lines   []string // wrapped lines
	scrollY int
	pinned  bool // stick to the bottom as content grows
}

// NewViewport creates a viewport with the given dimensions.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height, pinned: true}
}

// SetSize updates the dimensions and re-clamps the scroll position.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clamp()
}

// SetContent replaces the content, wrapping each line to the width.
func (v *Viewport) SetContent(content string) {
	v.lines = v.lines[:0]
	for _, line := range strings.Split(content, "\n") {
		if v.width > 0 {
			line = wordwrap.String(line, v.width)
		}
		v.lines = append(v.lines, strings.Split(line, "\n")...)
	}
	if v.pinned {
		v.scrollY = v.maxScroll()
	}
	v.clamp()
}

// ScrollUp moves up by n lines and releases the bottom pin.
func (v *Viewport) ScrollUp(n int) {
	v.scrollY -= n
	v.pinned = false
	v.clamp()
}

// ScrollDown moves down by n lines, re-pinning at the bottom.
func (v *Viewport) ScrollDown(n int) {
	v.scrollY += n
	if v.scrollY >= v.maxScroll() {
		v.pinned = true
	}
	v.clamp()
}

// PageUp scrolls up one page.
func (v *Viewport) PageUp() { v.ScrollUp(v.height) }

// PageDown scrolls down one page.
func (v *Viewport) PageDown() { v.ScrollDown(v.height) }

// End jumps to the bottom and pins.
func (v *Viewport) End() {
	v.pinned = true
	v.scrollY = v.maxScroll()
}

// Render returns the visible window padded to the viewport height.
func (v *Viewport) Render() string {
	end := v.scrollY + v.height
	if end > len(v.lines) {
		end = len(v.lines)
	}
	start := v.scrollY
	if start > end {
		start = end
	}

	visible := make([]string, 0, v.height)
	visible = append(visible, v.lines[start:end]...)
	for len(visible) < v.height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

func (v *Viewport) maxScroll() int {
	max := len(v.lines) - v.height
	if max < 0 {
		return 0
	}
	return max
}

func (v *Viewport) clamp() {
	if v.scrollY > v.maxScroll() {
		v.scrollY = v.maxScroll()
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}
