package pdf

import (
	"regexp"
	"strings"
)

// PrimitiveCounts holds the vector primitives found on a rendered page.
type PrimitiveCounts struct {
	Lines  int
	Curves int
	Rects  int
}

var (
	defsRegex     = regexp.MustCompile(`(?s)<defs\b.*?</defs>`)
	pathDataRegex = regexp.MustCompile(`\bd="([^"]*)"`)
	rectRegex     = regexp.MustCompile(`<rect\b`)
	lineElemRegex = regexp.MustCompile(`<(?:line|polyline)\b`)
)

// CountPrimitives scans MuPDF's SVG rendition of a page and counts drawing
// primitives. Glyph outlines are emitted inside <defs> and referenced via
// <use>, so stripping defs leaves only the actual page geometry; text itself
// is measured separately from the extracted text.
func CountPrimitives(svg string) PrimitiveCounts {
	svg = defsRegex.ReplaceAllString(svg, "")

	var c PrimitiveCounts
	c.Rects = len(rectRegex.FindAllStringIndex(svg, -1))
	c.Lines = len(lineElemRegex.FindAllStringIndex(svg, -1))

	for _, m := range pathDataRegex.FindAllStringSubmatch(svg, -1) {
		lines, curves, rects := countPathData(m[1])
		c.Lines += lines
		c.Curves += curves
		c.Rects += rects
	}

	return c
}

// countPathData walks one path's command string. Each line command counts as
// a line segment and each curve command as a curve, except that a closed
// subpath made of 3-4 straight segments counts as a single rectangle, which
// matches how PDF producers emit boxes and table cells.
func countPathData(d string) (lines, curves, rects int) {
	for _, sub := range splitSubpaths(d) {
		subLines, subCurves := 0, 0
		for _, cmd := range sub.commands {
			switch cmd {
			case 'L', 'l', 'H', 'h', 'V', 'v':
				subLines++
			case 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a':
				subCurves++
			}
		}
		if sub.closed && subCurves == 0 && (subLines == 3 || subLines == 4) {
			rects++
			continue
		}
		lines += subLines
		curves += subCurves
	}
	return lines, curves, rects
}

type subpath struct {
	commands []byte
	closed   bool
}

// splitSubpaths breaks path data into subpaths at M/m commands, recording
// the drawing commands of each and whether it was closed with Z/z.
func splitSubpaths(d string) []subpath {
	var subs []subpath
	var cur *subpath

	for i := 0; i < len(d); i++ {
		ch := d[i]
		if !isPathCommand(ch) {
			continue
		}
		switch ch {
		case 'M', 'm':
			subs = append(subs, subpath{})
			cur = &subs[len(subs)-1]
		case 'Z', 'z':
			if cur != nil {
				cur.closed = true
			}
		default:
			if cur == nil {
				subs = append(subs, subpath{})
				cur = &subs[len(subs)-1]
			}
			cur.commands = append(cur.commands, ch)
		}
	}
	return subs
}

func isPathCommand(ch byte) bool {
	return strings.IndexByte("MmLlHhVvCcSsQqTtAaZz", ch) >= 0
}
