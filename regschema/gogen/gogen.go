// Package gogen renders compiled register surfaces as Go source.
//
// Every block becomes an opaque struct bound to its link symbol, every
// register a uintN type reached from the block through its offset and every
// field accessor a method doing exactly one volatile load and/or store.
package gogen

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/tools/imports"

	"omibyte.io/hwc/regschema"
)

var ErrNoPackage = errors.New("no package name")

type Options struct {
	// VolatileImport is the package providing LoadUintN/StoreUintN.
	VolatileImport string

	// ExternDirective binds a variable to a linker symbol.
	ExternDirective string

	// Source is mentioned in the generated header when set.
	Source string
}

func DefaultOptions() Options {
	return Options{
		VolatileImport:  "runtime/volatile",
		ExternDirective: "//go:extern",
	}
}

// Generate renders surfaces as the Go package pkg.
func Generate(pkg string, surfaces []*regschema.Surface, opts Options) ([]byte, error) {
	if pkg == "" {
		return nil, ErrNoPackage
	}
	if opts.VolatileImport == "" {
		opts.VolatileImport = DefaultOptions().VolatileImport
	}
	if opts.ExternDirective == "" {
		opts.ExternDirective = DefaultOptions().ExternDirective
	}
	if err := checkNames(surfaces); err != nil {
		return nil, err
	}
	volatilePkg := opts.VolatileImport[strings.LastIndexByte(opts.VolatileImport, '/')+1:]

	var w strings.Builder
	writePreamble(&w, pkg, opts)
	fmt.Fprintln(&w, "import (")
	fmt.Fprintln(&w, `"unsafe"`)
	fmt.Fprintf(&w, "%q\n", opts.VolatileImport)
	fmt.Fprintln(&w, ")")
	fmt.Fprintln(&w)

	writeRegistry(&w, surfaces, opts)
	for _, s := range surfaces {
		writeBlock(&w, s, volatilePkg)
	}

	fname := pkg + "_regs.go"
	buf, err := imports.Process(fname, []byte(w.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error formatting %s: %w", fname, err)
	}
	return buf, nil
}

func writePreamble(w io.Writer, pkg string, opts Options) {
	if opts.Source != "" {
		fmt.Fprintf(w, "// Code generated by hwc from %s. DO NOT EDIT.\n\n", opts.Source)
	} else {
		fmt.Fprint(w, "// Code generated by hwc. DO NOT EDIT.\n\n")
	}
	fmt.Fprintf(w, "package %s\n\n", pkg)
}

func writeRegistry(w io.Writer, surfaces []*regschema.Surface, opts Options) {
	for _, s := range surfaces {
		fmt.Fprintf(w, "%s %s\n", opts.ExternDirective, s.LinkSymbol)
		fmt.Fprintf(w, "var %s %s\n\n", blockVar(s), exportName(s.Block.Name))
	}

	fmt.Fprintln(w, "// Registry exposes every register block of this package.")
	fmt.Fprintln(w, "type Registry struct {")
	for _, s := range surfaces {
		name := exportName(s.Block.Name)
		fmt.Fprintf(w, "%s *%s\n", name, name)
	}
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "// Registers returns the registry bound to the linked register blocks.")
	fmt.Fprintln(w, "func Registers() *Registry {")
	fmt.Fprintln(w, "return &Registry{")
	for _, s := range surfaces {
		fmt.Fprintf(w, "%s: &%s,\n", exportName(s.Block.Name), blockVar(s))
	}
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
}

func blockVar(s *regschema.Surface) string {
	return unexportName(s.Block.Name) + "Block"
}

func writeBlock(w io.Writer, s *regschema.Surface, volatilePkg string) {
	block := exportName(s.Block.Name)

	// The block is opaque; registers are reached through their offsets.
	var size uint64
	for _, r := range s.Registers {
		if end := uint64(r.Register.Offset) + uint64(r.Register.Width/8); end > size {
			size = end
		}
	}
	fmt.Fprintf(w, "// %s is bound to the link symbol %s.\n", block, s.LinkSymbol)
	fmt.Fprintf(w, "type %s struct {\n_ [%d]byte\n}\n\n", block, size)

	for _, r := range s.Registers {
		reg := r.Register
		typename := block + exportName(reg.Name)
		fmt.Fprintf(w, "func (b *%s) %s() *%s {\n", block, exportName(reg.Name), typename)
		fmt.Fprintf(w, "return (*%s)(unsafe.Add(unsafe.Pointer(b), %#x))\n", typename, uint64(reg.Offset))
		fmt.Fprintln(w, "}")
		fmt.Fprintln(w)
		writeRegister(w, typename, r, volatilePkg)
	}
}

func writeRegister(w io.Writer, typename string, r *regschema.RegisterSurface, volatilePkg string) {
	width := r.Register.Width
	dataType := typeForSize(width)
	load := fmt.Sprintf("%s.Load%s((*%s)(r))", volatilePkg, exportName(dataType), dataType)
	store := volatilePkg + ".Store" + exportName(dataType)

	fmt.Fprintf(w, "type %s %s\n\n", typename, dataType)

	for _, a := range r.Fields {
		f := a.Field
		fieldName := exportName(f.Name)
		paramType := typeForBitWidth(f.Bits.Width())
		mask := a.Mask()

		var enumType string
		if len(f.Values) > 0 {
			enumType = typename + fieldName
			writeEnum(w, enumType, f, paramType)
		}

		if a.Getter {
			fmt.Fprintf(w, "func (r *%s) Get%s() %s {\n", typename, fieldName, paramType)
			if paramType == "bool" {
				fmt.Fprintf(w, "return %s&%#x != 0\n", load, mask)
			} else {
				fmt.Fprintf(w, "return %s((%s >> %d) & %#x)\n", paramType, load, a.Shift(), f.Bits.Mask())
			}
			fmt.Fprintln(w, "}")
			fmt.Fprintln(w)
		}

		if !a.Setter {
			continue
		}
		fmt.Fprintf(w, "func (r *%s) Set%s(value %s) {\n", typename, fieldName, paramType)
		switch {
		case a.Direct:
			fmt.Fprintf(w, "%s((*%s)(r), value)\n", store, dataType)
		case paramType == "bool":
			fmt.Fprintf(w, "v := %s\n", load)
			fmt.Fprintln(w, "if value {")
			fmt.Fprintf(w, "v |= %#x\n", mask)
			fmt.Fprintln(w, "} else {")
			fmt.Fprintf(w, "v &^= %#x\n", mask)
			fmt.Fprintln(w, "}")
			fmt.Fprintf(w, "%s((*%s)(r), v)\n", store, dataType)
		default:
			fmt.Fprintf(w, "v := %s\n", load)
			fmt.Fprintf(w, "%s((*%s)(r), v&^%#x|%s(value)<<%d&%#x)\n", store, dataType, mask, dataType, a.Shift(), mask)
		}
		fmt.Fprintln(w, "}")
		fmt.Fprintln(w)

		if enumType != "" {
			fmt.Fprintf(w, "func (r *%s) Set%sNamed(value %s) {\n", typename, fieldName, enumType)
			if paramType == "bool" {
				fmt.Fprintf(w, "r.Set%s(value != 0)\n", fieldName)
			} else {
				fmt.Fprintf(w, "r.Set%s(%s(value))\n", fieldName, paramType)
			}
			fmt.Fprintln(w, "}")
			fmt.Fprintln(w)
		}
	}
}

func writeEnum(w io.Writer, enumType string, f *regschema.Field, paramType string) {
	underlying := paramType
	if underlying == "bool" {
		underlying = "uint8"
	}
	fmt.Fprintf(w, "type %s %s\n\n", enumType, underlying)
	fmt.Fprintln(w, "const (")
	for _, v := range f.Values {
		fmt.Fprintf(w, "%s%s %s = %#x\n", enumType, exportName(v.Name), enumType, uint64(v.Value))
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintln(w)
}

func typeForSize(width uint) string {
	switch {
	case width <= 8:
		return "uint8"
	case width <= 16:
		return "uint16"
	default:
		return "uint32"
	}
}

func typeForBitWidth(width uint) string {
	if width == 1 {
		return "bool"
	}
	return typeForSize(width)
}

// exportName turns schema names like "scgc5" or "pll_sel" into Go
// identifiers like "Scgc5" and "PllSel".
func exportName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

func unexportName(s string) string {
	name := exportName(s)
	// Keep acronyms like WDOG readable as wdog.
	if strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[:1]) + name[1:]
}
