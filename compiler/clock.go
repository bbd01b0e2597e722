package compiler

import (
	"strings"

	"omibyte.io/hwc/diag"
	"omibyte.io/hwc/platformtree"
	"omibyte.io/hwc/targets"
)

var pllAttrs = []string{"m", "n", "divisor"}

// compileClock validates a clock node and its pll. It returns nil if
// anything the call depends on is missing or malformed.
func compileClock(clock *platformtree.Node, rules *targets.ClockRules, dc *diag.Context) Statement {
	ok := true

	for _, a := range clock.Attrs() {
		if a.Name != "source" && a.Name != "source_frequency" {
			dc.Errorf(clock, "unknown clock attribute %q", a.Name)
			ok = false
		}
	}

	var ctor string
	if v, found := clock.Attr("source"); !found {
		dc.Errorf(clock, "clock requires a source")
		ok = false
	} else if name, isString := v.AsString(); !isString {
		dc.Errorf(clock, "clock source must be a string, found %s", v.Kind())
		ok = false
	} else if ctor, found = rules.Sources[name]; !found {
		dc.Errorf(clock, "unknown clock source %q, expected one of %s", name, strings.Join(rules.SourceNames(), ", "))
		ok = false
	}

	var freq int64
	if v, found := clock.Attr("source_frequency"); !found {
		dc.Errorf(clock, "clock requires a source_frequency")
		ok = false
	} else if n, isInt := v.AsInt(); !isInt {
		dc.Errorf(clock, "source_frequency must be an integer, found %s", v.Kind())
		ok = false
	} else if n <= 0 {
		dc.Errorf(clock, "source_frequency must be positive, found %d", n)
		ok = false
	} else {
		freq = n
	}

	for _, child := range clock.Children() {
		if child.Kind != KindPLL {
			dc.Errorf(child, "unknown node kind %q in clock", child.Kind)
			ok = false
		}
	}
	plls := clock.ChildrenOf(KindPLL)
	var pll *Composite
	switch len(plls) {
	case 0:
		dc.Errorf(clock, "clock requires a pll node")
		ok = false
	case 1:
		if pll = compilePLL(plls[0], rules, dc); pll == nil {
			ok = false
		}
	default:
		dc.Errorf(clock, "clock has %d pll nodes, expected exactly one", len(plls))
		ok = false
	}

	if !ok {
		return nil
	}
	return &Call{
		Import: rules.Import,
		Entry:  rules.Entry,
		Args: []Expr{
			&Composite{
				Type: rules.Config,
				Fields: []FieldExpr{
					{Name: "Source", Value: &Ctor{Func: ctor, Args: []Expr{Int(freq)}}},
					{Name: "PLL", Value: pll},
				},
			},
		},
	}
}

func compilePLL(pll *platformtree.Node, rules *targets.ClockRules, dc *diag.Context) *Composite {
	ok := true
	c := &Composite{
		Type:   rules.PLLType,
		Fields: []FieldExpr{{Name: "Enabled", Value: Bool(true)}},
	}

	for _, a := range pll.Attrs() {
		switch a.Name {
		case "m", "n", "divisor":
		default:
			dc.Errorf(pll, "unknown pll attribute %q", a.Name)
			ok = false
		}
	}
	for _, child := range pll.Children() {
		dc.Errorf(child, "pll takes no child nodes, found %q", child.Kind)
		ok = false
	}

	for _, name := range pllAttrs {
		v, found := pll.Attr(name)
		if !found {
			dc.Errorf(pll, "pll requires %q", name)
			ok = false
			continue
		}
		n, isInt := v.AsInt()
		if !isInt {
			dc.Errorf(pll, "pll %q must be an integer, found %s", name, v.Kind())
			ok = false
			continue
		}
		c.Fields = append(c.Fields, FieldExpr{Name: fieldName(name), Value: Int(n)})
	}

	if !ok {
		return nil
	}
	return c
}

func fieldName(attr string) string {
	return strings.ToUpper(attr[:1]) + attr[1:]
}
