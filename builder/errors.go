package builder

import "errors"

var (
	ErrParserError          = errors.New("parser error occurred")
	ErrCompilationFailed    = errors.New("compilation failed")
	ErrUnexpectedOutputPath = errors.New("unexpected output path provided")
	ErrUnknownFormat        = errors.New("unknown output format")
	ErrUnresolvedSymbols    = errors.New("link symbols did not resolve")
)
