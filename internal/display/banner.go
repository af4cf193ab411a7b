package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

// RenderBanner returns the banner art centred for width columns, followed
// by a tagline. A width of 0 means the current terminal width.
func RenderBanner(width int, tagline string) string {
	if width <= 0 {
		width = termWidth()
	}

	lines := strings.Split(strings.TrimRight(bannerRaw, "\n"), "\n")
	if tagline != "" {
		lines = append(lines, "", tagline)
	}

	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	pad := 0
	if width > maxW {
		pad = (width - maxW) / 2
	}

	var b strings.Builder
	for _, l := range lines {
		if pad > 0 && l != "" {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// PrintBanner writes the banner sized to the terminal.
func (p *Printer) PrintBanner(tagline string) {
	p.write(RenderBanner(0, tagline))
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
