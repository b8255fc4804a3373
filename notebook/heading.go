package notebook

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// HeadingLevel returns the level (1-6) of the first markdown heading in a
// markup cell, or 0 when the cell is code, a raw cell, or has no heading.
//
// The result is cached per cell version.
func HeadingLevel(c *Cell) int {
	if c == nil || c.kind != KindMarkup || c.Language == "raw" {
		return 0
	}
	if c.heading.valid && c.heading.version == c.version {
		return c.heading.level
	}
	level := parseHeadingLevel(c.Source())
	c.heading = headingCache{version: c.version, valid: true, level: level}
	return level
}

func parseHeadingLevel(src string) int {
	if src == "" {
		return 0
	}
	// Parsers keep state between calls, so each parse gets its own.
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := markdown.Parse([]byte(src), p)

	level := 0
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if h, ok := node.(*ast.Heading); ok && !h.IsTitleblock {
			level = h.Level
			return ast.Terminate
		}
		return ast.GoToNext
	})
	if level < 0 || level > 6 {
		return 0
	}
	return level
}
