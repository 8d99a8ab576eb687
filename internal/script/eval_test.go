package script

import (
	"errors"
	"reflect"
	"testing"
)

func TestRunUnknownFunction(t *testing.T) {
	prog, err := Parse("file\nsystem('rm -rf /')")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	calls := 0
	err = Run(prog, Funcs{"file": func(Args) (Value, error) {
		calls++
		return nil, nil
	}})
	if !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("Run() error = %v, want ErrUnknownFunction", err)
	}
	var ee *EvalError
	if !errors.As(err, &ee) || ee.Name != "system" || ee.Pos.Line != 2 {
		t.Errorf("EvalError = %+v, want system at line 2", ee)
	}
	if calls != 1 {
		t.Errorf("file called %d times, want 1", calls)
	}
}

func TestRunWrapsFunctionErrors(t *testing.T) {
	sentinel := errors.New("boom")
	prog, err := Parse("outer do\n  inner\nend")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	var funcs Funcs
	funcs = Funcs{
		"outer": func(a Args) (Value, error) {
			return nil, Run(a.Block, funcs)
		},
		"inner": func(Args) (Value, error) {
			return nil, sentinel
		},
	}

	err = Run(prog, funcs)
	if !errors.Is(err, sentinel) {
		t.Fatalf("Run() error = %v, want sentinel", err)
	}
	var ee *EvalError
	if !errors.As(err, &ee) || ee.Name != "inner" {
		t.Errorf("EvalError = %+v, want the innermost call", ee)
	}
}

func TestStringList(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want []string
	}{
		{"nil", nil, nil},
		{"blank", "  ", nil},
		{"single", "Newbie", []string{"Newbie"}},
		{"list with blanks", []Value{"A", nil, "", "B"}, []string{"A", "B"}},
		{"nested", []Value{"A", []Value{"B"}}, []string{"A", "B"}},
		{"string slice", []string{"A", ""}, []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StringList(tt.in)
			if err != nil {
				t.Fatalf("StringList(%v) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StringList(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := StringList(int64(3)); !errors.Is(err, ErrArgument) {
		t.Errorf("StringList(3) error = %v, want ErrArgument", err)
	}
}

func TestOptionString(t *testing.T) {
	opts := map[string]Value{"refname": "develop", "ref": "", "base": int64(1)}

	got, err := OptionString(opts, "ref", "refname")
	if err != nil || got != "develop" {
		t.Errorf("OptionString(ref, refname) = %q, %v, want develop", got, err)
	}
	if _, err := OptionString(opts, "base"); !errors.Is(err, ErrArgument) {
		t.Errorf("OptionString(base) error = %v, want ErrArgument", err)
	}
	if got, _ := OptionString(opts, "missing"); got != "" {
		t.Errorf("OptionString(missing) = %q, want empty", got)
	}
}
