// Package targets holds the per-MCU rules the platform compiler validates
// against.
package targets

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed targets.yaml
var rawTargets []byte

var targets Targets

var (
	ErrTargetNotFound = errors.New("target not found")
	ErrInvalidTarget  = errors.New("invalid target description")
)

func All() Targets {
	return targets
}

type Targets []*Target

type Target struct {
	MCU         string `yaml:"mcu"`
	Arch        string `yaml:"arch"`
	StackSymbol string `yaml:"stackSymbol"`

	// RootAttributes lists the attributes accepted on the mcu node.
	RootAttributes []string `yaml:"rootAttributes,omitempty"`

	Clock *ClockRules `yaml:"clock,omitempty"`
}

// ClockRules describe how a clock node becomes a call into the target's
// clock initialization package.
type ClockRules struct {
	Import  string `yaml:"import"`
	Entry   string `yaml:"entry"`
	Config  string `yaml:"config"`
	PLLType string `yaml:"pllType"`

	// Sources maps the accepted source names to the constructor used for
	// them in the generated call.
	Sources map[string]string `yaml:"sources"`
}

// SourceNames returns the recognized clock sources, sorted.
func (c *ClockRules) SourceNames() []string {
	names := maps.Keys(c.Sources)
	slices.Sort(names)
	return names
}

func (t *Target) AllowsRootAttribute(name string) bool {
	return slices.Contains(t.RootAttributes, name)
}

func (t *Target) validate() error {
	var errs []error
	if t.MCU == "" {
		errs = append(errs, errors.New("missing mcu"))
	}
	if t.StackSymbol == "" {
		errs = append(errs, fmt.Errorf("%s: missing stackSymbol", t.MCU))
	}
	if c := t.Clock; c != nil {
		if c.Import == "" || c.Entry == "" || c.Config == "" || c.PLLType == "" {
			errs = append(errs, fmt.Errorf("%s: clock needs import, entry, config and pllType", t.MCU))
		}
		if len(c.Sources) == 0 {
			errs = append(errs, fmt.Errorf("%s: clock has no sources", t.MCU))
		}
	}
	if len(errs) > 0 {
		return errors.Join(ErrInvalidTarget, errors.Join(errs...))
	}
	return nil
}

func (t Targets) FindByMCU(name string) (*Target, error) {
	for _, target := range t {
		if target.MCU == strings.ToLower(name) {
			return target, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, name)
}

func (t Targets) Names() []string {
	names := make([]string, 0, len(t))
	for _, target := range t {
		names = append(names, target.MCU)
	}
	return names
}

// Load reads a targets file in the same format as the embedded one.
func Load(r io.Reader) (Targets, error) {
	var t struct {
		Elements Targets `yaml:"targets"`
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Join(ErrInvalidTarget, err)
	}

	seen := map[string]bool{}
	for _, target := range t.Elements {
		if err := target.validate(); err != nil {
			return nil, err
		}
		target.MCU = strings.ToLower(target.MCU)
		if seen[target.MCU] {
			return nil, fmt.Errorf("%w: duplicate mcu %s", ErrInvalidTarget, target.MCU)
		}
		seen[target.MCU] = true
	}
	return t.Elements, nil
}

func LoadFile(path string) (Targets, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func init() {
	t, err := Load(bytes.NewReader(rawTargets))
	if err != nil {
		panic(err)
	}
	targets = t
}
