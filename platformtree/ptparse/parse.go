// Package ptparse reads platform trees written as
//
//	mcu@lpc17xx {
//		clock {
//			source = "main-oscillator";
//			source_frequency = 12_000_000;
//			pll { m = 50; n = 3; divisor = 4; }
//		}
//	}
//
// Attribute values are integers, strings, true/false or a nested node.
package ptparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/scanner"

	"omibyte.io/hwc/platformtree"
)

var ErrSyntax = errors.New("syntax error")

type parser struct {
	s    scanner.Scanner
	tok  rune
	errs []error
}

// Parse reads exactly one root node from r.
func Parse(filename string, r io.Reader) (*platformtree.Node, error) {
	p := &parser{}
	p.s.Init(r)
	p.s.Filename = filename
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	p.s.IsIdentRune = isIdentRune
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.errs = append(p.errs, fmt.Errorf("%s: %w: %s", s.Position, ErrSyntax, msg))
	}
	p.next()

	root, err := p.node()
	if err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, p.unexpected("end of input")
	}
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return root, nil
}

func ParseString(src string) (*platformtree.Node, error) {
	return Parse("", strings.NewReader(src))
}

func ParseFile(path string) (*platformtree.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

func isIdentRune(ch rune, i int) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') ||
		(i > 0 && (('0' <= ch && ch <= '9') || ch == '-'))
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) pos() platformtree.Pos {
	return platformtree.Pos{Line: p.s.Position.Line, Column: p.s.Position.Column}
}

func (p *parser) unexpected(want string) error {
	found := p.s.TokenText()
	if p.tok == scanner.EOF {
		found = "end of input"
	}
	return fmt.Errorf("%s: %w: expected %s, found %q", p.s.Position, ErrSyntax, want, found)
}

func (p *parser) expect(tok rune, want string) error {
	if p.tok != tok {
		return p.unexpected(want)
	}
	p.next()
	return nil
}

// node := kind ['@' name] (';' | '{' {item} '}' [';'])
func (p *parser) node() (*platformtree.Node, error) {
	if p.tok != scanner.Ident {
		return nil, p.unexpected("node kind")
	}
	n := platformtree.NewNode(p.s.TokenText(), "")
	n.Pos = p.pos()
	p.next()
	return p.nodeRest(n)
}

func (p *parser) nodeRest(n *platformtree.Node) (*platformtree.Node, error) {
	if p.tok == '@' {
		p.next()
		if p.tok != scanner.Ident {
			return nil, p.unexpected("node name")
		}
		n.Name = p.s.TokenText()
		p.next()
	}

	switch p.tok {
	case ';':
		p.next()
		return n, nil
	case '{':
		p.next()
	default:
		return nil, p.unexpected("';' or '{'")
	}

	for p.tok != '}' {
		if err := p.item(n); err != nil {
			return nil, err
		}
	}
	p.next()
	if p.tok == ';' {
		p.next()
	}
	return n, nil
}

// item := ident '=' value ';' | node
func (p *parser) item(parent *platformtree.Node) error {
	if p.tok != scanner.Ident {
		return p.unexpected("attribute or node")
	}
	name := p.s.TokenText()
	pos := p.pos()
	p.next()

	if p.tok != '=' {
		child := platformtree.NewNode(name, "")
		child.Pos = pos
		if _, err := p.nodeRest(child); err != nil {
			return err
		}
		parent.AddChild(child)
		return nil
	}
	p.next()

	if _, exists := parent.Attr(name); exists {
		return fmt.Errorf("%s: %w: duplicate attribute %q", pos, ErrSyntax, name)
	}
	v, err := p.value()
	if err != nil {
		return err
	}
	parent.SetAttrAt(name, v, pos)

	// A nested node value carries its own terminator.
	if _, isNode := v.AsNode(); isNode {
		return nil
	}
	return p.expect(';', "';'")
}

func (p *parser) value() (platformtree.Value, error) {
	switch p.tok {
	case scanner.Int:
		n, err := strconv.ParseInt(p.s.TokenText(), 0, 64)
		if err != nil {
			return platformtree.Value{}, fmt.Errorf("%s: %w: %v", p.s.Position, ErrSyntax, err)
		}
		p.next()
		return platformtree.Int(n), nil
	case '-':
		p.next()
		if p.tok != scanner.Int {
			return platformtree.Value{}, p.unexpected("integer")
		}
		n, err := strconv.ParseInt("-"+p.s.TokenText(), 0, 64)
		if err != nil {
			return platformtree.Value{}, fmt.Errorf("%s: %w: %v", p.s.Position, ErrSyntax, err)
		}
		p.next()
		return platformtree.Int(n), nil
	case scanner.String:
		s, err := strconv.Unquote(p.s.TokenText())
		if err != nil {
			return platformtree.Value{}, fmt.Errorf("%s: %w: %v", p.s.Position, ErrSyntax, err)
		}
		p.next()
		return platformtree.Str(s), nil
	case scanner.Ident:
		switch p.s.TokenText() {
		case "true":
			p.next()
			return platformtree.Bool(true), nil
		case "false":
			p.next()
			return platformtree.Bool(false), nil
		}
		n, err := p.node()
		if err != nil {
			return platformtree.Value{}, err
		}
		return platformtree.NodeRef(n), nil
	}
	return platformtree.Value{}, p.unexpected("value")
}
