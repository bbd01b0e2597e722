package svd

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Integer decodes the SVD scaled non-negative integer notation: decimal,
// 0x/0X hexadecimal or #binary.
type Integer uint64

func (h *Integer) UnmarshalXML(d *xml.Decoder, start xml.StartElement) (err error) {
	var v string
	if err = d.DecodeElement(&v, &start); err != nil {
		return err
	}

	value, err := parseInteger(v)
	if err != nil {
		return err
	}
	*h = Integer(value)
	return nil
}

func parseInteger(v string) (uint64, error) {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasPrefix(v, "0x"), strings.HasPrefix(v, "0X"):
		return strconv.ParseUint(v[2:], 16, 64)
	case strings.HasPrefix(v, "#"):
		// "Do not care" bits read as zero.
		return strconv.ParseUint(strings.ReplaceAll(v[1:], "x", "0"), 2, 64)
	default:
		return strconv.ParseUint(v, 10, 64)
	}
}
