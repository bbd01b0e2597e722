// Package compiler turns a platform tree into the ordered initialization
// statements of a firmware image.
//
// A compilation always runs to the end. The statements it could build and
// every diagnostic it recorded are returned together; callers must check
// Failed before using the statements.
package compiler

import (
	"strings"

	"omibyte.io/hwc/diag"
	"omibyte.io/hwc/platformtree"
	"omibyte.io/hwc/targets"
)

const (
	KindMCU   = "mcu"
	KindClock = "clock"
	KindPLL   = "pll"
)

type Result struct {
	MCU         string
	Statements  []Statement
	Diagnostics []diag.Diagnostic
}

func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

func (r *Result) Err() error {
	return diag.Join(r.Diagnostics)
}

// Compile builds the statements of root for target. The stack limit and
// data initialization always come first. A clock statement follows when
// the root has a valid clock node.
func Compile(root *platformtree.Node, target *targets.Target) *Result {
	dc := diag.NewContext()
	r := &Result{}
	if checkRoot(root, dc) {
		switch {
		case target == nil:
			dc.Errorf(root, "no target rules for %q", root.Name)
		case root.Name != "" && !strings.EqualFold(root.Name, target.MCU):
			dc.Errorf(root, "tree is for %q but target is %q", root.Name, target.MCU)
		default:
			r.MCU = target.MCU
			r.Statements = compileMCU(root, target, dc)
		}
	}
	r.Diagnostics = dc.Diagnostics()
	return r
}

// CompileFor looks up the rules for the MCU named by the root node.
func CompileFor(root *platformtree.Node, ts targets.Targets) *Result {
	if root != nil && root.Kind == KindMCU {
		if target, err := ts.FindByMCU(root.Name); err == nil {
			return Compile(root, target)
		}
	}
	return Compile(root, nil)
}

// checkRoot reports the input errors that leave nothing to compile.
func checkRoot(root *platformtree.Node, dc *diag.Context) bool {
	if root == nil {
		dc.Errorf(nil, "empty platform tree")
		return false
	}
	if err := platformtree.CheckTree(root); err != nil {
		dc.Errorf(root, "%v", err)
		return false
	}
	if root.Kind != KindMCU {
		dc.Errorf(root, "root node must be %q, found %q", KindMCU, root.Kind)
		return false
	}
	return true
}

func compileMCU(root *platformtree.Node, target *targets.Target, dc *diag.Context) []Statement {
	stmts := []Statement{
		&StackLimit{Symbol: target.StackSymbol},
		&DataInit{},
	}

	for _, a := range root.Attrs() {
		switch {
		case a.Name == KindClock:
			dc.Errorf(root, "%q must be a child node, not an attribute", KindClock)
		case !target.AllowsRootAttribute(a.Name):
			dc.Errorf(root, "unknown attribute %q", a.Name)
		}
	}
	for _, child := range root.Children() {
		if child.Kind != KindClock {
			dc.Errorf(child, "unknown node kind %q", child.Kind)
		}
	}

	clocks := root.ChildrenOf(KindClock)
	switch {
	case len(clocks) > 1:
		for _, extra := range clocks[1:] {
			dc.Errorf(extra, "more than one clock node")
		}
	case len(clocks) == 1 && target.Clock == nil:
		dc.Errorf(clocks[0], "%s has no configurable clock", target.MCU)
	case len(clocks) == 1:
		if stmt := compileClock(clocks[0], target.Clock, dc); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
