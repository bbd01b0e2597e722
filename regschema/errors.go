package regschema

import "errors"

var (
	ErrUnknownSymbol    = errors.New("unknown enumerated value")
	ErrValueOverflow    = errors.New("value does not fit the field")
	ErrNotReadable      = errors.New("field is not readable")
	ErrNotWritable      = errors.New("field is not writable")
	ErrUnresolvedSymbol = errors.New("link symbol has no address")
	ErrDuplicateBlock   = errors.New("duplicate block name")
	ErrBadBitRange      = errors.New("bad bit range")
	ErrBadAccess        = errors.New("bad access mode")
)
