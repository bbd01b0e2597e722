package emit

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"omibyte.io/hwc/compiler"
)

var (
	artifactEncMode cbor.EncMode
	artifactDecMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	artifactEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create artifact CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}
	artifactDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create artifact CBOR decoder mode: %v", err))
	}
}

// Artifact is the serialized form of a compilation for emitters that do
// not link against this module.
type Artifact struct {
	MCU         string            `cbor:"1,keyasint"`
	Statements  []StatementEntry  `cbor:"2,keyasint"`
	Diagnostics []DiagnosticEntry `cbor:"3,keyasint,omitempty"`
}

type StatementEntry struct {
	Kind    string   `cbor:"1,keyasint"`
	Imports []string `cbor:"2,keyasint,omitempty"`
	Decls   []string `cbor:"3,keyasint,omitempty"`
	Source  string   `cbor:"4,keyasint"`
}

type DiagnosticEntry struct {
	Severity string `cbor:"1,keyasint"`
	Location string `cbor:"2,keyasint,omitempty"`
	Message  string `cbor:"3,keyasint"`
}

func (a *Artifact) Failed() bool {
	for _, d := range a.Diagnostics {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

func NewArtifact(r *compiler.Result) *Artifact {
	a := &Artifact{MCU: r.MCU}
	for _, stmt := range r.Statements {
		a.Statements = append(a.Statements, StatementEntry{
			Kind:    statementKind(stmt),
			Imports: stmt.Imports(),
			Decls:   stmt.Decls(),
			Source:  stmt.Source(),
		})
	}
	for _, d := range r.Diagnostics {
		entry := DiagnosticEntry{Severity: d.Severity.String(), Message: d.Message}
		if d.Location != nil {
			entry.Location = d.Location.String()
		}
		a.Diagnostics = append(a.Diagnostics, entry)
	}
	return a
}

func statementKind(stmt compiler.Statement) string {
	switch stmt.(type) {
	case *compiler.StackLimit:
		return "stack-limit"
	case *compiler.DataInit:
		return "data-init"
	case *compiler.Call:
		return "call"
	}
	return fmt.Sprintf("%T", stmt)
}

func EncodeArtifact(w io.Writer, r *compiler.Result) error {
	return artifactEncMode.NewEncoder(w).Encode(NewArtifact(r))
}

func DecodeArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := artifactDecMode.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}
