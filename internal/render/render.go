// Package render turns an excerpt window into printable lines.
package render

import (
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"backtrace/internal/excerpt"
)

// Painter renders windows. Build it with NewPainter; the zero Painter renders plain,
// untruncated lines.
type Painter struct {
	color bool
	width int

	hot  *color.Color
	cold *color.Color
}

// NewPainter builds a painter whose color decision does not depend on the global
// color.NoColor. width > 0 limits the display cells of every line.
func NewPainter(useColor bool, width int) *Painter {
	p := &Painter{color: useColor, width: width}
	p.hot = color.New(color.Bold, color.FgRed)
	p.cold = color.New(color.FgRed)
	if useColor {
		p.hot.EnableColor()
		p.cold.EnableColor()
	} else {
		p.hot.DisableColor()
		p.cold.DisableColor()
	}
	return p
}

// Render returns one string per present slot, in window order.
func (p *Painter) Render(w excerpt.Window) []string {
	out := make([]string, 0, len(w.Lines))
	for _, l := range w.Lines {
		if !l.Present {
			continue
		}
		out = append(out, p.line(l.Text, l.Highlight))
	}
	return out
}

// Notice renders a single non-highlighted line, used for the staleness message.
func (p *Painter) Notice(text string) string {
	return p.line(text, false)
}

func (p *Painter) line(text string, highlight bool) string {
	prefix := " "
	c := p.cold
	if highlight {
		prefix = ">"
		c = p.hot
	}
	s := truncate(prefix+text, p.width)
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// хвост входит в ширину
	return runewidth.Truncate(value, width, "...")
}
