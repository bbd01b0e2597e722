// Package emit renders compiled platform statements for downstream tools.
package emit

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/tools/imports"

	"omibyte.io/hwc/compiler"
)

var ErrFailedCompilation = errors.New("refusing to emit a failed compilation")

type Options struct {
	// Entry is called after the initialization statements. Empty means
	// main returns after initializing.
	Entry string

	// HALModule is prepended to the hal/... runtime imports.
	HALModule string

	// Source names the input in the generated header.
	Source string
}

func DefaultOptions() Options {
	return Options{Entry: "run"}
}

// GoMain writes a main package whose main function runs the statements in
// order and then the application entry point.
func GoMain(r *compiler.Result, opts Options) ([]byte, error) {
	if r.Failed() {
		return nil, errors.Join(ErrFailedCompilation, r.Err())
	}

	var pkgImports []string
	var decls []string
	seen := map[string]bool{}
	for _, stmt := range r.Statements {
		for _, imp := range stmt.Imports() {
			imp = resolveImport(imp, opts.HALModule)
			if !seen[imp] {
				seen[imp] = true
				pkgImports = append(pkgImports, imp)
			}
		}
		decls = append(decls, stmt.Decls()...)
	}

	var b strings.Builder
	b.WriteString("// Code generated by hwc")
	if opts.Source != "" {
		fmt.Fprintf(&b, " from %s", opts.Source)
	}
	fmt.Fprintf(&b, " for %s. DO NOT EDIT.\n\n", r.MCU)
	b.WriteString("package main\n\n")

	if len(pkgImports) > 0 {
		b.WriteString("import (\n")
		for _, imp := range pkgImports {
			fmt.Fprintf(&b, "\t%q\n", imp)
		}
		b.WriteString(")\n\n")
	}

	for _, decl := range decls {
		b.WriteString(decl)
		b.WriteString("\n\n")
	}

	b.WriteString("func main() {\n")
	for _, stmt := range r.Statements {
		fmt.Fprintf(&b, "\t%s\n", stmt.Source())
	}
	if opts.Entry != "" {
		fmt.Fprintf(&b, "\t%s()\n", opts.Entry)
	}
	b.WriteString("}\n")

	out, err := imports.Process("main.go", []byte(b.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format generated main: %w", err)
	}
	return out, nil
}

func resolveImport(imp, module string) string {
	if module == "" || !strings.HasPrefix(imp, "hal/") {
		return imp
	}
	return path.Join(module, imp)
}
