// viewport.go provides the scrollback area of the chat.
//
// Content is appended as blocks (already styled), wrapped to the current
// width at render time, and pinned to the bottom unless the user scrolls.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Viewport is a scrollable, wrapping text area.
type Viewport struct {
	width   int
	height  int
	content []string // logical lines, may carry ANSI styling
	scrollY int      // lines scrolled up from the bottom
}

// NewViewport creates a viewport with the given dimensions.
func NewViewport(width, height int) *Viewport {
	return &Viewport{width: width, height: height}
}

// Append adds a block of text, split on newlines, and follows the bottom.
func (v *Viewport) Append(block string) {
	v.content = append(v.content, strings.Split(block, "\n")...)
	v.scrollY = 0
}

// Clear removes all content.
func (v *Viewport) Clear() {
	v.content = nil
	v.scrollY = 0
}

// SetSize updates viewport dimensions.
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.clampScroll()
}

// ScrollUp moves the view n lines back in history.
func (v *Viewport) ScrollUp(n int) {
	v.scrollY += n
	v.clampScroll()
}

// ScrollDown moves the view n lines towards the newest content.
func (v *Viewport) ScrollDown(n int) {
	v.scrollY -= n
	v.clampScroll()
}

// PageUp scrolls up by one page.
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height)
}

// PageDown scrolls down by one page.
func (v *Viewport) PageDown() {
	v.ScrollDown(v.height)
}

// End jumps back to the newest content.
func (v *Viewport) End() {
	v.scrollY = 0
}

// Render returns exactly height lines (fewer only when height <= 0).
func (v *Viewport) Render() string {
	lines := v.wrapped()
	end := len(lines) - v.scrollY
	start := max(end-v.height, 0)
	visible := append([]string(nil), lines[start:end]...)
	for len(visible) < v.height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

// wrapped returns content lines wrapped to the viewport width.
func (v *Viewport) wrapped() []string {
	if v.width <= 0 {
		return v.content
	}
	wrap := lipgloss.NewStyle().Width(v.width)
	var out []string
	for _, line := range v.content {
		if lipgloss.Width(line) <= v.width {
			out = append(out, line)
			continue
		}
		out = append(out, strings.Split(wrap.Render(line), "\n")...)
	}
	return out
}

func (v *Viewport) clampScroll() {
	maxY := len(v.wrapped()) - v.height
	if v.scrollY > maxY {
		v.scrollY = maxY
	}
	if v.scrollY < 0 {
		v.scrollY = 0
	}
}
