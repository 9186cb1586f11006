// banner.go renders the startup panel shown above the chat.
package tui

import (
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// BannerInfo is what the startup panel shows.
type BannerInfo struct {
	AppName    string
	Framework  string
	Version    string
	Model      string
	BaseURL    string
	Database   string // empty hides the row
	Now        time.Time
	ShowSystem bool
}

const labelWidth = 10

// BannerWidth clamps the terminal width to the panel's [70, 96] range.
func BannerWidth(termWidth int) int {
	w := termWidth
	if w <= 0 {
		w = 88
	}
	w = min(max(70, min(w, 100)), 100)
	return min(w, 96)
}

// RenderBanner draws the startup panel for a terminal termWidth columns wide.
func RenderBanner(info BannerInfo, termWidth int) string {
	width := BannerWidth(termWidth)
	// border(2) + padding(2*2)
	inner := width - 6
	valueWidth := inner - labelWidth - 1

	title := StyleBannerTitle.Render("🤖 " + info.AppName)
	if info.Framework != "" {
		title += "  " + StyleDimmed.Render("("+info.Framework+")")
	}
	if info.Version != "" {
		title += "  " + StyleDimmed.Render("v"+info.Version)
	}

	now := info.Now
	if now.IsZero() {
		now = time.Now()
	}

	var rows []string
	rows = append(rows, kvRows("Model", info.Model, StyleModel, valueWidth)...)
	rows = append(rows, kvRows("Base URL", TruncateMiddle(info.BaseURL, valueWidth*2), StyleURL, valueWidth)...)
	if info.Database != "" {
		rows = append(rows, kvRows("Database", info.Database, StyleURL, valueWidth)...)
	}
	rows = append(rows, kvRows("Time", now.Format("2006-01-02 15:04:05 MST"), StyleDimmed, valueWidth)...)
	if info.ShowSystem {
		sys := runtime.GOOS + " " + runtime.GOARCH + " · " + runtime.Version()
		rows = append(rows, kvRows("System", sys, StyleDimmed, valueWidth)...)
	}

	bullet := StyleBold.Render("• ")
	help := []string{
		bullet + "Type a message and press Enter",
		bullet + "Type " + StyleExit.Render("exit") + " or " + StyleExit.Render("quit") + " to stop, " +
			StyleHelpKey.Render("/help") + " for commands",
		bullet + StyleDimmed.Render("Tip: set NO_COLOR=1 to disable colors"),
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(inner, lipgloss.Center, title),
		"",
		strings.Join(rows, "\n"),
		"",
		strings.Join(help, "\n"),
	)
	return StyleBanner.Width(width - 2).Render(body)
}

// kvRows renders a right-aligned label and a wrapped value.
func kvRows(label, value string, valueStyle lipgloss.Style, width int) []string {
	lbl := StyleLabel.Width(labelWidth).Align(lipgloss.Right)
	pad := strings.Repeat(" ", labelWidth)

	var out []string
	for i, line := range WrapText(value, width) {
		left := pad
		if i == 0 {
			left = lbl.Render(label)
		}
		out = append(out, left+" "+valueStyle.Render(line))
	}
	return out
}

// TruncateMiddle shortens s to maxLen runes by replacing its middle with "…".
func TruncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	head := (maxLen - 1) / 2
	tail := maxLen - 1 - head
	return string(r[:head]) + "…" + string(r[len(r)-tail:])
}

// WrapText word-wraps s to width runes, hard-wrapping tokens that are
// longer than a line (URLs). Always returns at least one line.
func WrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}

	var out []string
	line := ""
	for _, token := range strings.Split(s, " ") {
		if line == "" {
			line = token
			continue
		}
		if runeLen(line)+1+runeLen(token) <= width {
			line += " " + token
		} else {
			out = append(out, line)
			line = token
		}
	}
	if line != "" {
		out = append(out, line)
	}

	var hard []string
	for _, ln := range out {
		r := []rune(ln)
		if len(r) <= width {
			hard = append(hard, ln)
			continue
		}
		for i := 0; i < len(r); i += width {
			hard = append(hard, string(r[i:min(i+width, len(r))]))
		}
	}
	if len(hard) == 0 {
		return []string{""}
	}
	return hard
}

func runeLen(s string) int {
	return len([]rune(s))
}
