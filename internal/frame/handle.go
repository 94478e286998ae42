package frame

// Handle is the accessor set a host runtime exposes for one structured call site.
type Handle interface {
	IsNative() bool
	IsEval() bool
	IsConstructor() bool
	IsToplevel() bool
	// FileName returns the script name; for eval frames the source URL, if any.
	FileName() string
	LineNumber() int
	ColumnNumber() int
	FunctionName() string
	TypeName() string
	MethodName() string
	// EvalOrigin describes where eval'd code came from, e.g. "eval at run (app.coffee:3:1)".
	EvalOrigin() string
}

// Site is a plain Handle for hosts that build call sites themselves.
type Site struct {
	Native      bool
	Eval        bool
	Constructor bool
	Toplevel    bool
	File        string
	Line        int
	Column      int
	Function    string
	Type        string
	Method      string
	Origin      string
}

func (s Site) IsNative() bool { return s.Native }
func (s Site) IsEval() bool { return s.Eval }
func (s Site) IsConstructor() bool { return s.Constructor }
func (s Site) IsToplevel() bool { return s.Toplevel }
func (s Site) FileName() string { return s.File }
func (s Site) LineNumber() int { return s.Line }
func (s Site) ColumnNumber() int { return s.Column }
func (s Site) FunctionName() string { return s.Function }
func (s Site) TypeName() string { return s.Type }
func (s Site) MethodName() string { return s.Method }
func (s Site) EvalOrigin() string { return s.Origin }

// Input is either a preformatted frame line or a structured handle.
type Input struct {
	line   string
	handle Handle
}

// FromLine wraps a preformatted frame line.
func FromLine(line string) Input {
	return Input{line: line}
}

// FromHandle wraps a structured call site.
func FromHandle(h Handle) Input {
	return Input{handle: h}
}

// Structured reports whether the input wraps a Handle.
func (in Input) Structured() bool {
	return in.handle != nil
}
