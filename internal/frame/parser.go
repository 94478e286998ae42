// Package frame turns raw stack frames, either preformatted lines or structured call
// sites, into Descriptors that the rest of the pipeline can remap.
package frame

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// at fn (path:line:col); greedy path so parentheses inside it survive
	parenLocation = regexp.MustCompile(`\((.+):(\d+):(\d+)`)
	// at path:line:col, printed for nameless top-level code
	bareLocation = regexp.MustCompile(`^\s*at\s+([^\s(][^()]*?):(\d+):(\d+)\s*$`)
	// at [new ]name [as alias] (
	callee = regexp.MustCompile(`^\s*at\s+(new\s+)?(.+?)(?:\s+\[as\s+([^\]]+)\])?\s+\(`)
)

// Parse dispatches on the input variant.
func Parse(in Input) Descriptor {
	if in.handle != nil {
		return ParseHandle(in.handle)
	}
	return ParseLine(in.line)
}

// ParseLine parses one preformatted frame line. Lines without a recognisable location
// come back with no path and the raw text untouched.
func ParseLine(line string) Descriptor {
	d := Descriptor{Raw: line, Kind: KindNormal, Call: CallToplevel}
	trimmed := strings.TrimSpace(line)

	if m := callee.FindStringSubmatch(trimmed); m != nil {
		d.FunctionName = m[2]
		d.MethodName = m[3]
		switch {
		case m[1] != "":
			d.Call = CallConstructor
		case strings.Contains(d.FunctionName, "."):
			d.Call = CallMethod
			d.TypeName = d.FunctionName[:strings.Index(d.FunctionName, ".")]
		default:
			d.Call = CallFunction
		}
	}

	switch {
	case strings.HasSuffix(trimmed, "(native)"):
		d.Kind = KindNative
		return d
	case strings.Contains(trimmed, "(eval at "):
		d.Kind = KindEval
		return d
	case strings.HasSuffix(trimmed, "(<anonymous>)"):
		d.Kind = KindAnonymous
		return d
	}

	if m := parenLocation.FindStringSubmatch(trimmed); m != nil {
		d.Path, d.Line, d.Column = m[1], atoi(m[2]), atoi(m[3])
		return d
	}
	if m := bareLocation.FindStringSubmatch(trimmed); m != nil {
		d.Path, d.Line, d.Column = m[1], atoi(m[2]), atoi(m[3])
		d.Call = CallToplevel
		return d
	}
	return d
}

// ParseHandle builds a Descriptor from a structured call site. Raw holds the synthesized
// line in the same "    at ..." shape the runtime prints.
func ParseHandle(h Handle) Descriptor {
	d := Descriptor{
		Raw:          "    at " + Format(h),
		TypeName:     h.TypeName(),
		FunctionName: h.FunctionName(),
		MethodName:   h.MethodName(),
	}

	switch {
	case h.IsConstructor():
		d.Call = CallConstructor
	case !h.IsToplevel():
		d.Call = CallMethod
	case h.FunctionName() != "":
		d.Call = CallFunction
	default:
		d.Call = CallToplevel
	}

	switch {
	case h.IsNative():
		d.Kind = KindNative
		return d
	case h.IsEval():
		d.Kind = KindEval
	case h.FileName() == "":
		d.Kind = KindAnonymous
		return d
	default:
		d.Kind = KindNormal
	}

	d.Path = h.FileName()
	d.Line = max(h.LineNumber(), 0)
	d.Column = max(h.ColumnNumber(), 0)
	return d
}

// Format renders a call site as one line, without the leading "at".
//
//	Type.fn [as method] (file:line:col)
//	new Name (file:line:col)
//	fn (file:line:col)
//	file:line:col
func Format(h Handle) string {
	location := formatLocation(h)

	fn := h.FunctionName()
	if h.IsConstructor() {
		return "new " + orAnonymous(fn) + " (" + location + ")"
	}
	if !h.IsToplevel() {
		typ, method := h.TypeName(), h.MethodName()
		if fn == "" {
			return typ + "." + orAnonymous(method) + " (" + location + ")"
		}
		var sb strings.Builder
		if typ != "" && !strings.HasPrefix(fn, typ) {
			sb.WriteString(typ)
			sb.WriteString(".")
		}
		sb.WriteString(fn)
		if method != "" && method != fn && !strings.HasSuffix(fn, "."+method) {
			sb.WriteString(" [as ")
			sb.WriteString(method)
			sb.WriteString("]")
		}
		sb.WriteString(" (")
		sb.WriteString(location)
		sb.WriteString(")")
		return sb.String()
	}
	if fn != "" {
		return fn + " (" + location + ")"
	}
	return location
}

func formatLocation(h Handle) string {
	if h.IsNative() {
		return "native"
	}

	var prefix string
	file := h.FileName()
	if h.IsEval() && file == "" {
		prefix = h.EvalOrigin() + ", "
	}
	file = orAnonymous(file)

	if line := h.LineNumber(); line > 0 {
		file += ":" + strconv.Itoa(line)
		if col := h.ColumnNumber(); col > 0 {
			file += ":" + strconv.Itoa(col)
		}
	}
	return prefix + file
}

func orAnonymous(s string) string {
	if s == "" {
		return "<anonymous>"
	}
	return s
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
