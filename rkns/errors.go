package rkns

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-rkns/store"
)

// Sentinel errors. Typed errors below wrap one of these so callers can
// match a family with errors.Is and a concrete failure with errors.As.
var (
	ErrNotFound           = errors.New("rkns: not found")
	ErrAlreadyExists      = errors.New("rkns: already exists")
	ErrUnsupportedFormat  = errors.New("rkns: unsupported format")
	ErrParse              = errors.New("rkns: parse error")
	ErrValidation         = errors.New("rkns: validation failed")
	ErrStructuralMismatch = errors.New("rkns: structural mismatch")
	ErrClosed             = errors.New("rkns: container is closed")
	ErrIndex              = errors.New("rkns: index error")
	ErrValue              = errors.New("rkns: invalid value")
	ErrKey                = errors.New("rkns: unknown key")
	ErrNotImplemented     = errors.New("rkns: not implemented")
)

// ParseError reports a source file or container header that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("rkns: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// MissingAttributeError reports a required attribute absent from a node.
type MissingAttributeError struct {
	Path string
	Attr string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("rkns: %s: missing attribute %q", e.Path, e.Attr)
}

func (e *MissingAttributeError) Unwrap() error { return ErrValidation }

// MissingChildError reports a required child node absent from a group.
type MissingChildError struct {
	Path  string
	Child string
}

func (e *MissingChildError) Error() string {
	return fmt.Sprintf("rkns: %s: missing child %q", e.Path, e.Child)
}

func (e *MissingChildError) Unwrap() error { return ErrValidation }

// WrongNodeKindError reports a node that is a group where an array was
// expected, or the reverse.
type WrongNodeKindError struct {
	Path string
	Want store.Kind
	Got  store.Kind
}

func (e *WrongNodeKindError) Error() string {
	return fmt.Sprintf("rkns: %s: expected %s, found %s", e.Path, e.Want, e.Got)
}

func (e *WrongNodeKindError) Unwrap() error { return ErrValidation }

// InvalidGroupNameError reports a frequency group whose name lacks the fg_ prefix.
type InvalidGroupNameError struct {
	Path string
	Name string
}

func (e *InvalidGroupNameError) Error() string {
	return fmt.Sprintf("rkns: %s: group name %q does not start with %q", e.Path, e.Name, frequencyGroupPrefix)
}

func (e *InvalidGroupNameError) Unwrap() error { return ErrValidation }

// InconsistentGroupError reports a frequency group whose arrays and
// attributes disagree, or a channel_info entry that does not match the
// groups.
type InconsistentGroupError struct {
	Path   string
	Reason string
}

func (e *InconsistentGroupError) Error() string {
	return fmt.Sprintf("rkns: %s: %s", e.Path, e.Reason)
}

func (e *InconsistentGroupError) Unwrap() error { return ErrValidation }

// DurationInconsistencyError reports a channel whose duration differs
// from the reference channel by a sample period or more.
type DurationInconsistencyError struct {
	Channel           string
	Duration          float64
	ReferenceChannel  string
	ReferenceDuration float64
}

func (e *DurationInconsistencyError) Error() string {
	return fmt.Sprintf("rkns: channel %q spans %gs but channel %q spans %gs",
		e.Channel, e.Duration, e.ReferenceChannel, e.ReferenceDuration)
}

func (e *DurationInconsistencyError) Unwrap() error { return ErrValidation }

// NameMismatchError reports compared groups with different names.
type NameMismatchError struct {
	A, B string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("rkns: group names do not match: %q vs %q", e.A, e.B)
}

func (e *NameMismatchError) Unwrap() error { return ErrStructuralMismatch }

// MemberCountMismatchError reports compared groups with different numbers of descendants.
type MemberCountMismatchError struct {
	Path string
	A, B int
}

func (e *MemberCountMismatchError) Error() string {
	return fmt.Sprintf("rkns: %s: number of members does not match: %d vs %d", e.Path, e.A, e.B)
}

func (e *MemberCountMismatchError) Unwrap() error { return ErrStructuralMismatch }

// PathMismatchError reports descendants that pair up under different paths.
type PathMismatchError struct {
	A, B string
}

func (e *PathMismatchError) Error() string {
	return fmt.Sprintf("rkns: member paths do not match: %q vs %q", e.A, e.B)
}

func (e *PathMismatchError) Unwrap() error { return ErrStructuralMismatch }

// NodeKindMismatchError reports a path that is a group on one side and an
// array on the other.
type NodeKindMismatchError struct {
	Path string
	A, B store.Kind
}

func (e *NodeKindMismatchError) Error() string {
	return fmt.Sprintf("rkns: %s: node kinds do not match: %s vs %s", e.Path, e.A, e.B)
}

func (e *NodeKindMismatchError) Unwrap() error { return ErrStructuralMismatch }

// ArrayShapeMismatchError reports arrays of different shapes.
type ArrayShapeMismatchError struct {
	Path string
	A, B []uint64
}

func (e *ArrayShapeMismatchError) Error() string {
	return fmt.Sprintf("rkns: %s: array shapes do not match: %v vs %v", e.Path, e.A, e.B)
}

func (e *ArrayShapeMismatchError) Unwrap() error { return ErrStructuralMismatch }

// ArrayValueMismatchError reports arrays whose values differ beyond tolerance.
type ArrayValueMismatchError struct {
	Path  string
	Index int
}

func (e *ArrayValueMismatchError) Error() string {
	return fmt.Sprintf("rkns: %s: array values do not match at element %d", e.Path, e.Index)
}

func (e *ArrayValueMismatchError) Unwrap() error { return ErrStructuralMismatch }

// AttributeMismatchError reports differing attribute sets or values.
// Attr is empty when the key sets differ.
type AttributeMismatchError struct {
	Path string
	Attr string
}

func (e *AttributeMismatchError) Error() string {
	if e.Attr == "" {
		return fmt.Sprintf("rkns: %s: attribute keys do not match", e.Path)
	}
	return fmt.Sprintf("rkns: %s: attribute %q does not match", e.Path, e.Attr)
}

func (e *AttributeMismatchError) Unwrap() error { return ErrStructuralMismatch }

// storeErr maps store sentinels onto the rkns equivalents, keeping the
// original error in the chain.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrExists):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	case errors.Is(err, store.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}
