package scrape

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a source produced no usable data.
type Kind int

const (
	KindNone Kind = iota
	// KindNetwork covers transport failures and non-2xx responses.
	KindNetwork
	// KindStructure means the document did not have the expected shape.
	KindStructure
	// KindEmpty means the document parsed but held no records.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindNetwork:
		return "network"
	case KindStructure:
		return "structure"
	case KindEmpty:
		return "empty"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Error struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrNoTables  = errors.New("no wikitable on page")
	ErrNoRecords = errors.New("no records")
)

func NetworkError(source string, err error) error {
	return &Error{Kind: KindNetwork, Source: source, Err: err}
}

func StructureError(source string, err error) error {
	return &Error{Kind: KindStructure, Source: source, Err: err}
}

func EmptyError(source string) error {
	return &Error{Kind: KindEmpty, Source: source, Err: ErrNoRecords}
}

// KindOf classifies err. Unclassified errors count as structure problems,
// except context cancellation which is reported as a network failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindStructure
}
