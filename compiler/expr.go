package compiler

import (
	"strconv"
	"strings"
)

// Expr is a literal argument of a generated call. Source renders it with
// type and constructor names qualified by pkg.
type Expr interface {
	Source(pkg string) string
}

type Int int64

func (i Int) Source(string) string {
	return strconv.FormatInt(int64(i), 10)
}

type Bool bool

func (b Bool) Source(string) string {
	return strconv.FormatBool(bool(b))
}

type Str string

func (s Str) Source(string) string {
	return strconv.Quote(string(s))
}

// Ctor is a constructor call such as Main(12000000).
type Ctor struct {
	Func string
	Args []Expr
}

func (c *Ctor) Source(pkg string) string {
	return qualify(pkg, c.Func) + "(" + joinExprs(pkg, c.Args) + ")"
}

type FieldExpr struct {
	Name  string
	Value Expr
}

// Composite is a struct literal. Fields keep their order.
type Composite struct {
	Type   string
	Fields []FieldExpr
}

func (c *Composite) Source(pkg string) string {
	var b strings.Builder
	b.WriteString(qualify(pkg, c.Type))
	b.WriteByte('{')
	for i, f := range c.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value.Source(pkg))
	}
	b.WriteByte('}')
	return b.String()
}

// Field returns the value of the named field.
func (c *Composite) Field(name string) (Expr, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func joinExprs(pkg string, exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Source(pkg)
	}
	return strings.Join(parts, ", ")
}
