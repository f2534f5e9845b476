package slim

import "fmt"

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// KindFormat covers a missing header marker or a malformed token.
	KindFormat ErrorKind = iota
	// KindType covers a value that should be numeric but is not.
	KindType
	// KindShape covers rows whose width does not match the header.
	KindShape
)

func (k ErrorKind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindType:
		return "type"
	case KindShape:
		return "shape"
	default:
		return "unknown"
	}
}

// ParseError represents an error during SLiM file parsing with line context.
type ParseError struct {
	Line    int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("slim %s error at line %d: %s: %v", e.Kind, e.Line, e.Message, e.Err)
	}
	return fmt.Sprintf("slim %s error at line %d: %s", e.Kind, e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
