package compiler

import (
	"fmt"
	"path"
)

// Runtime packages referenced by the baseline statements.
const (
	StackPackage   = "hal/stack"
	MemInitPackage = "hal/meminit"
)

// Statement is one unit of generated initialization code. Source is a
// single Go statement; Decls are package level declarations it needs.
type Statement interface {
	Imports() []string
	Decls() []string
	Source() string
}

// StackLimit sets the stack boundary from the address of an externally
// linked symbol.
type StackLimit struct {
	Symbol string
}

func (s *StackLimit) Imports() []string {
	return []string{"unsafe", StackPackage}
}

func (s *StackLimit) Decls() []string {
	return []string{fmt.Sprintf("//go:extern %s\nvar %s uint32", s.Symbol, s.Symbol)}
}

func (s *StackLimit) Source() string {
	return fmt.Sprintf("%s.SetStackLimit(uintptr(unsafe.Pointer(&%s)))", path.Base(StackPackage), s.Symbol)
}

// DataInit copies initialized data from its load image.
type DataInit struct{}

func (*DataInit) Imports() []string {
	return []string{MemInitPackage}
}

func (*DataInit) Decls() []string {
	return nil
}

func (*DataInit) Source() string {
	return path.Base(MemInitPackage) + ".InitData()"
}

// Call invokes Entry in the package at Import with literal arguments.
type Call struct {
	Import string
	Entry  string
	Args   []Expr
}

func (c *Call) Package() string {
	return path.Base(c.Import)
}

func (c *Call) Imports() []string {
	return []string{c.Import}
}

func (c *Call) Decls() []string {
	return nil
}

func (c *Call) Source() string {
	pkg := c.Package()
	return qualify(pkg, c.Entry) + "(" + joinExprs(pkg, c.Args) + ")"
}
