package corpus

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID       = errors.New("duplicate document id")
	ErrEmptyID           = errors.New("empty document id")
	ErrUnsupportedFormat = errors.New("unsupported corpus format")
	ErrMalformedCorpus   = errors.New("malformed corpus")
)

// DuplicateIDError names the id that appeared more than once.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate document id: %s", e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}
