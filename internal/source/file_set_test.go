package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetKeepsVersions(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("app/main.coffee", []byte("a = 1"), 0)
	id2 := fs.Add("app/./main.coffee", []byte("a = 2"), FileCompiled)
	if id1 == id2 {
		t.Fatalf("expected a new FileID for the second Add")
	}

	// старая версия остаётся доступной по ID
	if got := fs.Get(id1).Text(); got != "a = 1" {
		t.Errorf("first version content = %q", got)
	}
	second := fs.Get(id2)
	if second.Path != "app/main.coffee" || second.Flags&FileCompiled == 0 {
		t.Errorf("second version = %+v", second)
	}
	if fs.Get(FileID(42)) != nil {
		t.Errorf("Get with unknown id should return nil")
	}
}

func TestFileLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		count   int
		lines   map[int]string
		missing []int
	}{
		{"empty", "", 1, map[int]string{1: ""}, []int{0, 2}},
		{"no newline", "hello", 1, map[int]string{1: "hello"}, []int{2}},
		{"only newline", "\n", 2, map[int]string{1: "", 2: ""}, []int{3}},
		{"trailing newline", "a\nb\n", 3, map[int]string{1: "a", 2: "b", 3: ""}, []int{4}},
		{"unterminated", "a\n\nc", 3, map[int]string{1: "a", 2: "", 3: "c"}, []int{4, -1}},
		{"crlf normalized", "a\r\nb", 2, map[int]string{1: "a", 2: "b"}, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			content, flags := Normalize([]byte(tt.content))
			file := fs.Get(fs.Add("x.coffee", content, flags))

			if got := file.LineCount(); got != tt.count {
				t.Errorf("LineCount = %d, want %d", got, tt.count)
			}
			for n, want := range tt.lines {
				got, ok := file.Line(n)
				if !ok || got != want {
					t.Errorf("Line(%d) = %q,%v; want %q,true", n, got, ok, want)
				}
			}
			for _, n := range tt.missing {
				if _, ok := file.Line(n); ok {
					t.Errorf("Line(%d) should be absent", n)
				}
			}
		})
	}
}

func TestReadNormalized(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		raw   string
		want  string
		flags FileFlags
	}{
		{"plain", "a\nb\n", "a\nb\n", 0},
		{"bom", "\xEF\xBB\xBFa\nb\n", "a\nb\n", FileHadBOM},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"bom and crlf", "\xEF\xBB\xBFa\r\nb\r\n", "a\nb\n", FileHadBOM | FileNormalizedCRLF},
		{"lone cr kept", "a\rb\n", "a\rb\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".coffee")
			if err := os.WriteFile(path, []byte(tt.raw), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			content, flags, err := ReadNormalized(path)
			if err != nil {
				t.Fatalf("ReadNormalized: %v", err)
			}
			if string(content) != tt.want {
				t.Errorf("content = %q, want %q", content, tt.want)
			}
			if flags != tt.flags {
				t.Errorf("flags = %b, want %b", flags, tt.flags)
			}
		})
	}
}

func TestReadNormalizedMissing(t *testing.T) {
	if _, _, err := ReadNormalized(filepath.Join(t.TempDir(), "nope.coffee")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
