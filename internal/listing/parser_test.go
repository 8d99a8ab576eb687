package listing

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	apperrors "github.com/samhoang/capable/internal/errors"
	"github.com/samhoang/capable/internal/script"
)

func memFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range files {
		if err := afero.WriteFile(fs, name, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestListParserEvaluate(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
	}{
		{"chained", "Capable.list", "the file\n  at('lib/hello.rb')\n  depends on('Newbie')\n"},
		{"define", "Capable.list", "define(:file => 'lib/hello.rb', :depends => 'Newbie')"},
		{"define list", "Capable.list", "define(file: 'lib/hello.rb', depends: ['Newbie', nil], provides: [])"},
		{"yaml", "Capable.list.yaml", "files:\n  - file: lib/hello.rb\n    depends: Newbie\n"},
		{"toml", "Capable.list.toml", "[[files]]\nfile = \"lib/hello.rb\"\ndepends = [\"Newbie\"]\n"},
		{"cue", "Capable.list.cue", "files: [{file: \"lib/hello.rb\", depends: \"Newbie\"}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := NewListParser(tt.file, []byte(tt.src))
			if lp.Cursors().Len() != 0 {
				t.Fatalf("Len() before Evaluate = %d, want 0", lp.Cursors().Len())
			}

			cursors, err := lp.Evaluate()
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if cursors.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", cursors.Len())
			}
			first := cursors.Cursors()[0]
			if first.String() != "lib/hello.rb" {
				t.Errorf("first cursor = %q, want %q", first.String(), "lib/hello.rb")
			}
			if deps := first.Dependencies(); len(deps) != 1 || deps[0] != "Newbie" {
				t.Errorf("Dependencies() = %v, want [Newbie]", deps)
			}
		})
	}
}

func TestListParserEvaluatesOnce(t *testing.T) {
	lp := NewListParser("Capable.list", []byte("the file; at('a.rb'); provides('A')"))

	first, err := lp.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	second, err := lp.Evaluate()
	if err != nil {
		t.Fatalf("second Evaluate() error: %v", err)
	}
	if first != second || second.Len() != 1 {
		t.Errorf("second Evaluate() changed the collection: len %d", second.Len())
	}
}

func TestListParserEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		src  string
		want error
	}{
		{"no cursor", "Capable.list", "provides('A')", ErrNoCurrentCursor},
		{"conflict", "Capable.list", "define(file: 'a.rb', provides: 'A')\ndefine(file: 'b.rb', provides: 'A')", ErrProviderConflict},
		{"chained conflict", "Capable.list", "the file; at('a.rb'); provides('A')\nthe file; at('b.rb'); provides('A')", ErrProviderConflict},
		{"unknown call", "Capable.list", "system('ls')", script.ErrUnknownFunction},
		{"syntax", "Capable.list", "define(file: ", script.ErrSyntax},
		{"missing file", "Capable.list.yaml", "files:\n  - provides: A\n", ErrMissingFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewListParser(tt.file, []byte(tt.src)).Evaluate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestListParserNonStrictProvides(t *testing.T) {
	src := "the file; at('a.rb'); provides('A')\nthe file; at('b.rb'); provides('A', raise_on_fail: false)"
	cursors, err := NewListParser("Capable.list", []byte(src)).Evaluate()
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if owner := cursors.ProvidedBy("A"); owner == nil || owner.File() != "a.rb" {
		t.Errorf("ProvidedBy(A) = %v, want a.rb", owner)
	}
}

func TestListParserCUESchema(t *testing.T) {
	_, err := NewListParser("Capable.list.cue", []byte("files: [{provides: \"A\"}]\n")).Evaluate()
	if err == nil {
		t.Error("Evaluate() of an entry without file succeeded, want a schema error")
	}

	_, err = NewListParser("Capable.list.cue", []byte("files: [{file: \"a.rb\", extra: 1}]\n")).Evaluate()
	if err == nil {
		t.Error("Evaluate() of an entry with an unknown field succeeded, want a schema error")
	}
}

func TestListParserCheck(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		files     []string
		wantCount int
		wantErr   string
	}{
		{
			name:  "valid",
			src:   "the file\n  at('Gemfile')",
			files: []string{"Gemfile"},
		},
		{
			name:      "unmet dependency",
			src:       "the file\n  at('lib/hello.rb')\n  depends on('Newbie')\n",
			files:     []string{"lib/hello.rb"},
			wantCount: 1,
			wantErr:   "lib/hello.rb's dependency on 'Newbie' is not met. (Newbie does not exist?)",
		},
		{
			name:  "dependency provided by a second cursor",
			src:   "the file\n  at('lib/hello.rb')\n  depends on('Newbie')\nthe file\n  at('lib/newbie.rb')\n  provides('Newbie')\n",
			files: []string{"lib/hello.rb", "lib/newbie.rb"},
		},
		{
			name:      "missing file",
			src:       "define(file: 'lib/gone.rb')",
			wantCount: 1,
			wantErr:   "lib/gone.rb is not valid!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			lp := NewListParser("Capable.list", []byte(tt.src), WithFs(memFs(t, tt.files...)))
			err := lp.Check(&out, &errOut)

			if tt.wantCount == 0 {
				if err != nil {
					t.Fatalf("Check() error = %v, stderr %q", err, errOut.String())
				}
				if !strings.Contains(out.String(), "No errors found!") {
					t.Errorf("stdout = %q, want No errors found!", out.String())
				}
				return
			}

			var ce *apperrors.CheckError
			if !errors.As(err, &ce) {
				t.Fatalf("Check() error = %v, want CheckError", err)
			}
			if len(ce.Findings) != tt.wantCount {
				t.Errorf("findings = %q, want %d", ce.Findings, tt.wantCount)
			}
			if !strings.Contains(errOut.String(), tt.wantErr) {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantErr)
			}
			if out.Len() != 0 {
				t.Errorf("stdout = %q, want empty", out.String())
			}
		})
	}
}
