// Package excerpt cuts the window of source lines shown under a frame.
package excerpt

import (
	"unicode"
	"unicode/utf8"
)

// Pad is prefixed to every extracted line after the common indentation is removed.
const Pad = "        "

// Source gives 1-based access to the lines of a text; ok is false outside it.
// A trailing newline ends the text with an empty line.
type Source interface {
	Line(n int) (text string, ok bool)
}

// Line is one slot of a window. Slots outside the file are not Present.
type Line struct {
	Text      string
	Present   bool
	Highlight bool
}

// Window holds 2*context+1 slots centred on the target line.
type Window struct {
	Lines     []Line
	Highlight int
}

// Empty reports whether no slot of the window falls inside the file.
func (w Window) Empty() bool {
	for _, l := range w.Lines {
		if l.Present {
			return false
		}
	}
	return true
}

// Present returns the number of slots inside the file.
func (w Window) Present() int {
	n := 0
	for _, l := range w.Lines {
		if l.Present {
			n++
		}
	}
	return n
}

// Extract returns the lines around targetLine (1-based) with context lines on each side.
// Negative context is treated as zero.
func Extract(src Source, targetLine, context int) Window {
	context = max(context, 0)

	start := targetLine - context - 1
	w := Window{
		Lines:     make([]Line, 2*context+1),
		Highlight: context,
	}

	minIndent := -1
	for i := range w.Lines {
		text, ok := src.Line(start + i + 1)
		if !ok {
			continue
		}
		w.Lines[i] = Line{Text: text, Present: true}
		if text == "" {
			continue
		}
		if n := indent(text); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	minIndent = max(minIndent, 0)

	for i := range w.Lines {
		if !w.Lines[i].Present {
			continue
		}
		w.Lines[i].Text = Pad + stripRunes(w.Lines[i].Text, minIndent)
	}
	w.Lines[context].Highlight = true
	return w
}

// indent counts leading whitespace runes.
func indent(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

func stripRunes(s string, n int) string {
	for n > 0 && s != "" {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		n--
	}
	return s
}
