// Package style renders the operator-facing status output.
package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

const (
	// Brand accent used for headings and borders.
	ColorAccentPrimary = lipgloss.Color("#33A1FF")
	// Regular text on the default background.
	ColorText = lipgloss.Color("#E4E4E4")
	// Success green for active states.
	ColorSuccess = lipgloss.Color("#22C55E")
	// Muted labels.
	ColorMuted = lipgloss.Color("#888888")
)

var (
	bannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccentPrimary).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().Foreground(ColorAccentPrimary).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	valueStyle = lipgloss.NewStyle().Foreground(ColorText)
	okStyle    = lipgloss.NewStyle().Foreground(ColorSuccess)
)

// BannerInfo is everything the ready banner shows.
type BannerInfo struct {
	Version    string
	ThemeDir   string
	ReloadPort int
	Watching   bool
}

// Banner renders the one-time ready banner, clamped to the terminal
// width when it can be detected.
func Banner(info BannerInfo) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("goose-builder " + info.Version))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("theme    ") + valueStyle.Render(info.ThemeDir))
	b.WriteString("\n")
	if info.ReloadPort > 0 {
		b.WriteString(labelStyle.Render("reload   ") + valueStyle.Render(fmt.Sprintf("ws://localhost:%d/livereload", info.ReloadPort)))
		b.WriteString("\n")
	}
	if info.Watching {
		b.WriteString(labelStyle.Render("watcher  ") + okStyle.Render("active"))
	} else {
		b.WriteString(labelStyle.Render("watcher  ") + valueStyle.Render("off"))
	}

	box := bannerBox
	if width, _, err := term.GetSize(os.Stdout.Fd()); err == nil && width > 4 {
		box = box.MaxWidth(width)
	}
	return box.Render(b.String())
}
