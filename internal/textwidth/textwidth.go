// Package textwidth measures and clips terminal text by display cells,
// keeping grapheme clusters intact.
package textwidth

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ClusterWidth returns the terminal cell width of one grapheme cluster.
func ClusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	if cluster == "\t" {
		return 1
	}
	return runewidth.StringWidth(cluster)
}

// Width returns the terminal cell width of text.
func Width(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	w := 0
	for g.Next() {
		w += ClusterWidth(g.Str())
	}
	return w
}

// Clip returns the longest prefix of text fitting into width cells.
// A wide cluster that would straddle the limit is dropped.
func Clip(text string, width int) string {
	if width <= 0 || text == "" {
		return ""
	}
	g := uniseg.NewGraphemes(text)
	used := 0
	var sb strings.Builder
	for g.Next() {
		cw := ClusterWidth(g.Str())
		if used+cw > width {
			break
		}
		sb.WriteString(g.Str())
		used += cw
	}
	return sb.String()
}

// Fit clips text to width and pads it with spaces to exactly width cells.
func Fit(text string, width int) string {
	clipped := Clip(text, width)
	if pad := width - Width(clipped); pad > 0 {
		return clipped + strings.Repeat(" ", pad)
	}
	return clipped
}

// ExpandTabs replaces tabs with spaces up to the next multiple of tabWidth.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.Contains(text, "\t") {
		return text
	}
	g := uniseg.NewGraphemes(text)
	col := 0
	var sb strings.Builder
	for g.Next() {
		c := g.Str()
		if c == "\t" {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteString(c)
		col += ClusterWidth(c)
	}
	return sb.String()
}
