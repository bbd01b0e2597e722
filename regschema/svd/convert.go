// Package svd imports CMSIS-SVD device descriptions into register schemas.
package svd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"omibyte.io/hwc/regschema"
)

var ErrBadField = errors.New("field has no usable bit range")

func Decode(r io.Reader) (*DeviceElement, error) {
	var device DeviceElement
	if err := xml.NewDecoder(r).Decode(&device); err != nil {
		return nil, fmt.Errorf("xml decode error: %w", err)
	}
	return &device, nil
}

// Convert builds a schema with one block per peripheral. Each block is bound
// to the link symbol symbolPrefix+peripheral name. Derived peripherals share
// the layout of their base and are left to the symbol table.
func Convert(device *DeviceElement, pkg, symbolPrefix string) (*regschema.Schema, error) {
	schema := &regschema.Schema{Package: pkg}
	var errs []error

	for _, periph := range device.Peripherals.Elements {
		if len(periph.DerivedFrom) > 0 {
			continue
		}
		block := &regschema.Block{
			Name:       periph.Name,
			LinkSymbol: symbolPrefix + periph.Name,
		}

		for _, register := range periph.Registers.RegisterElements {
			size := uint(register.Size)
			if size == 0 {
				size = uint(device.RegisterSize)
			}
			reg := &regschema.Register{
				Name:   cleanIdentifier(register.Name),
				Offset: regschema.Integer(register.AddressOffset),
				Width:  size,
			}

			for _, field := range register.Fields.Elements {
				bits, err := fieldBits(field)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s.%s.%s: %w", periph.Name, register.Name, field.Name, err))
					continue
				}

				access := field.Access
				if access == "" {
					access = register.Access
				}
				if access == "" {
					access = device.DefaultAccess
				}
				mode, err := regschema.ParseAccess(normalizeAccess(access))
				if err != nil {
					errs = append(errs, fmt.Errorf("%s.%s.%s: %w", periph.Name, register.Name, field.Name, err))
					continue
				}

				f := &regschema.Field{
					Name:   cleanIdentifier(field.Name),
					Bits:   bits,
					Access: mode,
				}
				for _, ev := range field.EnumeratedValues.Elements {
					f.Values = append(f.Values, regschema.EnumValue{
						Name:  cleanIdentifier(ev.Name),
						Value: regschema.Integer(ev.Value),
					})
				}
				reg.Fields = append(reg.Fields, f)
			}
			block.Registers = append(block.Registers, reg)
		}
		schema.Blocks = append(schema.Blocks, block)
	}

	return schema, errors.Join(errs...)
}

func fieldBits(field FieldElement) (regschema.BitRange, error) {
	switch {
	case field.BitOffset != nil:
		width := uint(1)
		if field.BitWidth != nil {
			width = uint(*field.BitWidth)
		}
		if width == 0 {
			return regschema.BitRange{}, ErrBadField
		}
		low := uint(*field.BitOffset)
		return regschema.Bits(low, low+width-1), nil
	case field.LSB != nil && field.MSB != nil:
		return regschema.Bits(uint(*field.LSB), uint(*field.MSB)), nil
	case field.BitRange != "":
		// [msb:lsb]
		r := strings.Trim(strings.TrimSpace(field.BitRange), "[]")
		msb, lsb, ok := strings.Cut(r, ":")
		if !ok {
			return regschema.BitRange{}, ErrBadField
		}
		hi, err := strconv.ParseUint(msb, 10, 8)
		if err != nil {
			return regschema.BitRange{}, ErrBadField
		}
		lo, err := strconv.ParseUint(lsb, 10, 8)
		if err != nil {
			return regschema.BitRange{}, ErrBadField
		}
		return regschema.Bits(uint(lo), uint(hi)), nil
	}
	return regschema.BitRange{}, ErrBadField
}

// normalizeAccess maps the SVD once-variants onto the plain modes.
func normalizeAccess(access string) string {
	switch access {
	case "writeOnce":
		return "write-only"
	case "read-writeOnce":
		return "read-write"
	}
	return access
}

func cleanIdentifier(ident string) string {
	ident = strings.ReplaceAll(ident, "[%s]", "")
	ident = strings.ReplaceAll(ident, "%s", "")
	return strings.Trim(ident, "_")
}
