package gogen

import (
	"errors"
	"fmt"

	"omibyte.io/hwc/regschema"
)

var ErrNameCollision = errors.New("generated identifiers collide")

// scope tracks the identifiers declared in one namespace of the generated
// file: the package block or the method set of one type.
type scope struct {
	name  string
	owner map[string]string
	errs  []error
}

func newScope(name string) *scope {
	return &scope{name: name, owner: map[string]string{}}
}

func (s *scope) declare(ident, origin string) {
	if prev, ok := s.owner[ident]; ok {
		s.errs = append(s.errs, fmt.Errorf("%w: %s in %s declared by %s and %s", ErrNameCollision, ident, s.name, prev, origin))
		return
	}
	s.owner[ident] = origin
}

// checkNames declares every identifier Generate will emit and reports all
// duplicates.
func checkNames(surfaces []*regschema.Surface) error {
	pkg := newScope("package")
	pkg.declare("Registry", "registry type")
	pkg.declare("Registers", "registry constructor")
	scopes := []*scope{pkg}

	for _, s := range surfaces {
		blockName := s.Block.Name
		block := exportName(blockName)
		pkg.declare(block, "block "+blockName)
		pkg.declare(blockVar(s), "block "+blockName)

		blockMethods := newScope("methods of " + block)
		scopes = append(scopes, blockMethods)

		for _, r := range s.Registers {
			loc := regschema.Location{Block: blockName, Register: r.Register.Name}
			regName := exportName(r.Register.Name)
			typename := block + regName
			blockMethods.declare(regName, "register "+loc.String())
			pkg.declare(typename, "register "+loc.String())

			regMethods := newScope("methods of " + typename)
			scopes = append(scopes, regMethods)
			for _, a := range r.Fields {
				loc.Field = a.Field.Name
				origin := "field " + loc.String()
				fieldName := exportName(a.Field.Name)
				if a.Getter {
					regMethods.declare("Get"+fieldName, origin)
				}
				if a.Setter {
					regMethods.declare("Set"+fieldName, origin)
				}
				if len(a.Field.Values) == 0 {
					continue
				}
				enumType := typename + fieldName
				pkg.declare(enumType, origin)
				if a.Setter {
					regMethods.declare("Set"+fieldName+"Named", origin)
				}
				for _, v := range a.Field.Values {
					pkg.declare(enumType+exportName(v.Name), origin+" value "+v.Name)
				}
			}
		}
	}

	var errs []error
	for _, s := range scopes {
		errs = append(errs, s.errs...)
	}
	return errors.Join(errs...)
}
