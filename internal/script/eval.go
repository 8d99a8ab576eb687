package script

import (
	"errors"
	"fmt"
	"strings"
)

// Value is the result of evaluating a node: nil, string, int64, bool, []Value,
// map[string]Value, or an opaque value returned by a bound function.
type Value = any

// Args carries the evaluated arguments of one call
type Args struct {
	Call       *Call
	Positional []Value
	Named      map[string]Value
	Block      *Program
}

// Func implements one bound function
type Func func(args Args) (Value, error)

// Funcs is the builder surface a program may call
type Funcs map[string]Func

// Run evaluates every statement of prog in order, stopping at the first error
func Run(prog *Program, funcs Funcs) error {
	if prog == nil {
		return nil
	}
	for _, stmt := range prog.Stmts {
		if _, err := Eval(stmt, funcs); err != nil {
			return err
		}
	}
	return nil
}

// Eval evaluates a single node
func Eval(n Node, funcs Funcs) (Value, error) {
	switch n := n.(type) {
	case *Nil:
		return nil, nil
	case *Bool:
		return n.Value, nil
	case *Int:
		return n.Value, nil
	case *String:
		return n.Value, nil
	case *Symbol:
		return n.Name, nil
	case *List:
		items := make([]Value, 0, len(n.Items))
		for _, item := range n.Items {
			v, err := Eval(item, funcs)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case *Hash:
		return evalPairs(n.Pairs, funcs)
	case *Call:
		return evalCall(n, funcs)
	case *Program:
		return nil, Run(n, funcs)
	}
	return nil, fmt.Errorf("%w: unsupported node %T", ErrSyntax, n)
}

func evalPairs(pairs []Pair, funcs Funcs) (map[string]Value, error) {
	m := make(map[string]Value, len(pairs))
	for _, pair := range pairs {
		v, err := Eval(pair.Value, funcs)
		if err != nil {
			return nil, err
		}
		m[pair.Key] = v
	}
	return m, nil
}

func evalCall(call *Call, funcs Funcs) (Value, error) {
	fn, ok := funcs[call.Name]
	if !ok {
		return nil, &EvalError{Pos: call.Position, Name: call.Name, Err: ErrUnknownFunction}
	}

	args := Args{Call: call, Block: call.Block}
	for _, arg := range call.Args {
		v, err := Eval(arg, funcs)
		if err != nil {
			return nil, err
		}
		args.Positional = append(args.Positional, v)
	}
	named, err := evalPairs(call.Pairs, funcs)
	if err != nil {
		return nil, err
	}
	args.Named = named

	v, err := fn(args)
	if err != nil {
		var nested *EvalError
		if errors.As(err, &nested) {
			return nil, err
		}
		return nil, &EvalError{Pos: call.Position, Name: call.Name, Err: err}
	}
	return v, nil
}

// String returns positional argument i as a string
func (a Args) String(i int) (string, error) {
	if i >= len(a.Positional) {
		return "", fmt.Errorf("%w: missing argument %d", ErrArgument, i+1)
	}
	s, ok := a.Positional[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %d must be a string, got %s", ErrArgument, i+1, TypeName(a.Positional[i]))
	}
	return s, nil
}

// Options merges a trailing hash argument with the call's key/value pairs
func (a Args) Options() map[string]Value {
	opts := make(map[string]Value, len(a.Named))
	if n := len(a.Positional); n > 0 {
		if h, ok := a.Positional[n-1].(map[string]Value); ok {
			for k, v := range h {
				opts[k] = v
			}
		}
	}
	for k, v := range a.Named {
		opts[k] = v
	}
	return opts
}

// OptionString returns the first non-empty string stored under one of keys
func OptionString(opts map[string]Value, keys ...string) (string, error) {
	for _, key := range keys {
		v, ok := opts[key]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s must be a string, got %s", ErrArgument, key, TypeName(v))
		}
		if s != "" {
			return s, nil
		}
	}
	return "", nil
}

// StringList flattens a single name or a list of names, skipping nil and blank entries
func StringList(v Value) ([]string, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		return []string{v}, nil
	case []string:
		return StringList(toValues(v))
	case []Value:
		var out []string
		for _, item := range v {
			names, err := StringList(item)
			if err != nil {
				return nil, err
			}
			out = append(out, names...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: expected a name or list of names, got %s", ErrArgument, TypeName(v))
}

func toValues(ss []string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// TypeName describes a value for error messages
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string:
		return "string"
	case int64:
		return "integer"
	case bool:
		return "boolean"
	case []Value:
		return "list"
	case map[string]Value:
		return "hash"
	}
	return fmt.Sprintf("%T", v)
}
