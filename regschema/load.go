package regschema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

func Load(r io.Reader) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding register schema: %w", err)
	}
	return &s, nil
}

func LoadFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes s in the same format Load reads.
func Save(w io.Writer, s *Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// LoadSymbols reads a linker symbol table of the form
//
//	symbols:
//	  k20_iomem_WDOG: 0x40052000
func LoadSymbols(r io.Reader) (map[string]uint64, error) {
	var doc struct {
		Symbols map[string]Integer `yaml:"symbols"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding symbol table: %w", err)
	}
	symbols := make(map[string]uint64, len(doc.Symbols))
	for name, addr := range doc.Symbols {
		symbols[name] = uint64(addr)
	}
	return symbols, nil
}

func LoadSymbolsFile(path string) (map[string]uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadSymbols(f)
}
