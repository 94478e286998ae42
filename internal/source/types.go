package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	FileHadBOM FileFlags = 1 << iota
	FileNormalizedCRLF
	// FileCompiled marks text produced by the transpiler rather than read from disk.
	FileCompiled
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Flags   FileFlags
}

// Text returns the file content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

// LineCount returns the number of '\n'-separated lines. Content ending in a newline
// has an empty last line.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// Line returns the 1-based line n without its terminating newline.
func (f *File) Line(n int) (string, bool) {
	if n < 1 || n > f.LineCount() {
		return "", false
	}
	start := 0
	if n > 1 {
		start = int(f.LineIdx[n-2]) + 1
	}
	end := len(f.Content)
	if n-1 < len(f.LineIdx) {
		end = int(f.LineIdx[n-1])
	}
	return string(f.Content[start:end]), true
}
