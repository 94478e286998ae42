package frame

// Kind classifies where a frame's code lives.
type Kind uint8

const (
	// KindNormal is code loaded from a file.
	KindNormal Kind = iota
	// KindNative is code built into the runtime; it never has a path.
	KindNative
	// KindEval is code produced by eval.
	KindEval
	// KindAnonymous is code with no file name at all.
	KindAnonymous
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindNative:
		return "native"
	case KindEval:
		return "eval"
	case KindAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// CallKind describes how the frame's function was invoked.
type CallKind uint8

const (
	CallToplevel CallKind = iota
	CallConstructor
	CallMethod
	CallFunction
)

// String returns the string representation of CallKind.
func (c CallKind) String() string {
	switch c {
	case CallToplevel:
		return "toplevel"
	case CallConstructor:
		return "constructor"
	case CallMethod:
		return "method"
	case CallFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Descriptor is one parsed stack frame.
type Descriptor struct {
	Raw    string // frame line as printed, always kept
	Path   string // "" for native and anonymous frames
	Line   int    // 1-based, 0 if unknown
	Column int    // 1-based, 0 if unknown
	Kind   Kind
	Call   CallKind

	TypeName     string
	FunctionName string
	MethodName   string
}

// Recognizer tells whether a path is an original source file.
type Recognizer interface {
	Recognizes(path string) bool
}

// Remappable reports whether the frame points into a recognised source file at a known line.
func (d Descriptor) Remappable(r Recognizer) bool {
	if d.Kind == KindNative || d.Path == "" || d.Line <= 0 || r == nil {
		return false
	}
	return r.Recognizes(d.Path)
}

// HasLocation reports whether the frame carries a file position at all.
func (d Descriptor) HasLocation() bool {
	return d.Path != "" && d.Line > 0
}
