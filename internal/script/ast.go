// Package script parses the capable declaration files into an explicit expression
// tree and interprets that tree against a fixed set of builder functions.
//
// The language is deliberately small: calls with positional arguments and
// key/value pairs, optional do...end or {...} blocks, and literal strings,
// symbols, integers, lists and hashes. Nothing outside the functions bound by
// the caller can be invoked.
package script

// Pos is a 1-based line/column position in the source
type Pos struct {
	Line int
	Col  int
}

// Node is any element of the expression tree
type Node interface {
	Pos() Pos
}

// Program is a sequence of statements; used for whole files and block bodies
type Program struct {
	Position Pos
	Stmts    []Node
}

// Call invokes a bound function
type Call struct {
	Position Pos
	Name     string
	Args     []Node
	Pairs    []Pair
	Block    *Program
}

// Pair is a key/value argument or hash entry (`:key => v`, `"key" => v`, `key: v`)
type Pair struct {
	Key   string
	Value Node
}

// String is a quoted string literal
type String struct {
	Position Pos
	Value    string
}

// Symbol is a :name literal; it evaluates to its name
type Symbol struct {
	Position Pos
	Name     string
}

// Int is an integer literal
type Int struct {
	Position Pos
	Value    int64
}

// Bool is true or false
type Bool struct {
	Position Pos
	Value    bool
}

// Nil is the nil literal
type Nil struct {
	Position Pos
}

// List is a [a, b] literal
type List struct {
	Position Pos
	Items    []Node
}

// Hash is a {k => v} literal
type Hash struct {
	Position Pos
	Pairs    []Pair
}

func (n *Program) Pos() Pos { return n.Position }
func (n *Call) Pos() Pos    { return n.Position }
func (n *String) Pos() Pos  { return n.Position }
func (n *Symbol) Pos() Pos  { return n.Position }
func (n *Int) Pos() Pos     { return n.Position }
func (n *Bool) Pos() Pos    { return n.Position }
func (n *Nil) Pos() Pos     { return n.Position }
func (n *List) Pos() Pos    { return n.Position }
func (n *Hash) Pos() Pos    { return n.Position }
