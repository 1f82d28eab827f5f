package error

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSpecError_Error(t *testing.T) {
	cause := errors.New("undefined symbol")

	tests := []struct {
		caption string
		err     *SpecError
		msg     string
	}{
		{
			caption: "cause only",
			err: &SpecError{
				Cause: cause,
			},
			msg: "error: undefined symbol",
		},
		{
			caption: "with a source name, a row, and a detail",
			err: &SpecError{
				Cause:      cause,
				Detail:     "Foo",
				SourceName: "stdin",
				Row:        3,
			},
			msg: "stdin: 3: error: undefined symbol: Foo",
		},
		{
			caption: "with a row and a column",
			err: &SpecError{
				Cause: cause,
				Row:   2,
				Col:   7,
			},
			msg: "2:7: error: undefined symbol",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if msg := tt.err.Error(); msg != tt.msg {
				t.Fatalf("unexpected message; want: %q, got: %q", tt.msg, msg)
			}
			if !errors.Is(tt.err, cause) {
				t.Fatalf("a spec error must unwrap to its cause")
			}
		})
	}
}

func TestSpecError_PrintsSourceLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ll1")
	err := os.WriteFile(path, []byte("A -> a B ;\nB -> Foo ;\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}

	specErr := &SpecError{
		Cause:    errors.New("undefined symbol"),
		Detail:   "Foo",
		FilePath: path,
		Row:      2,
	}
	want := "2: error: undefined symbol: Foo\n    B -> Foo ;"
	if msg := specErr.Error(); msg != want {
		t.Fatalf("unexpected message; want: %q, got: %q", want, msg)
	}
}

func TestSpecErrors_Error(t *testing.T) {
	errs := SpecErrors{
		{Cause: errors.New("first"), Row: 1},
		{Cause: errors.New("second"), Row: 2},
	}
	want := "1: error: first\n2: error: second"
	if msg := errs.Error(); msg != want {
		t.Fatalf("unexpected message; want: %q, got: %q", want, msg)
	}
}
