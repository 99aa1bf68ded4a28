package types

import "fmt"

// StructuralError marks a reference the pipeline cannot proceed without:
// a day, slot or option that does not exist in the itinerary.
type StructuralError struct {
	Kind string // "day", "slot", "option"
	Ref  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error: %s %q not found", e.Kind, e.Ref)
}

// NewStructuralError builds a StructuralError for the given reference.
func NewStructuralError(kind, ref string) *StructuralError {
	return &StructuralError{Kind: kind, Ref: ref}
}

// ParseError is raised when generation text stays unparseable after every
// repair attempt. Offset and Context come from the underlying JSON parser so
// the caller can log where recovery gave up before falling back to the
// data-source generator.
type ParseError struct {
	Offset  int64
	Context string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("generation text unparseable at byte %d (near %q): %v", e.Offset, e.Context, e.Err)
	}
	return fmt.Sprintf("generation text unparseable: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
