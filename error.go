package cstruct

import "fmt"

// ConstraintViolation is returned when a value fails a descriptor's
// validation rules before packing: an integer out of range, an
// unknown enum symbol in strict mode, a string longer than its fixed
// size, or a value of the wrong shape (e.g. a non-map for a Struct).
// Unknown keys caught by the schema validator are reported as
// UnknownKeyError instead.
type ConstraintViolation struct {
	// Descriptor names the kind of descriptor that rejected the value
	// (e.g. "Int", "String", "Enum"), for diagnostics.
	Descriptor string
	Reason     string
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.Descriptor, e.Reason)
}

func constraintViolation(descriptor, reason string, args ...any) error {
	return &ConstraintViolation{Descriptor: descriptor, Reason: fmt.Sprintf(reason, args...)}
}

// UnknownKeyError is raised when a Struct is packed from a map
// containing a key with no corresponding field.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string { return fmt.Sprintf("unknown key %q", e.Key) }

// UnknownMemberError is raised when a Union is asked to read, write,
// or pack a member name it has no slot for.
type UnknownMemberError struct {
	Member string
}

func (e *UnknownMemberError) Error() string { return fmt.Sprintf("unknown union member %q", e.Member) }

// UnknownFieldError is raised when a Bitfield accessor is given a
// sub-field name it was not built with.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string { return fmt.Sprintf("unknown bitfield field %q", e.Field) }

// MissingBytesError is returned by any decoder that ran out of input.
// Need is how many additional bytes would have been required to
// complete the read that failed.
type MissingBytesError struct {
	Need int
}

func (e *MissingBytesError) Error() string {
	return fmt.Sprintf("missing bytes: need %d more", e.Need)
}

func missingBytes(need int) error { return &MissingBytesError{Need: need} }

// TerminatorNotFoundError is returned when a Terminated wrapper (or a
// terminated Array) reaches the end of the input without locating its
// terminator.
type TerminatorNotFoundError struct {
	// What names the descriptor that was looking for a terminator, for
	// diagnostics.
	What string
}

func (e *TerminatorNotFoundError) Error() string {
	return fmt.Sprintf("%s: terminator not found", e.What)
}

// ConflictingMembersError is returned when a Union is packed from a
// map naming more than one member.
type ConflictingMembersError struct {
	Members []string
}

func (e *ConflictingMembersError) Error() string {
	return fmt.Sprintf("conflicting union members in pack input: %v", e.Members)
}

// UnsupportedOperationError is returned for operations that only make
// sense on fixed-size descriptors, like Read and Pread on a
// variable-size type.
type UnsupportedOperationError struct {
	Op     string
	Reason string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// BuildError is raised at descriptor construction time: duplicate
// field names, illegal slot combinations, or an invalid bitfield
// layout.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string { return fmt.Sprintf("build error: %s", e.Reason) }

func buildError(reason string, args ...any) error {
	return &BuildError{Reason: fmt.Sprintf(reason, args...)}
}
