package recordstream

import (
	"fmt"

	"go.llib.dev/frameless/pkg/errorkit"
)

const ErrMalformed errorkit.Error = "malformed json document"

// DecodeError is the terminal error of a record stream.
// Records delivered before it remain valid.
type DecodeError struct {
	// Index is the position of the array element being read when the failure happened.
	// It is -1 when the array itself is malformed,
	// for example when the document is not an array at all.
	Index int
	Err   error
}

func (err *DecodeError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("%s: %v", ErrMalformed, err.Err)
	}
	return fmt.Sprintf("%s (element %d): %v", ErrMalformed, err.Index, err.Err)
}

func (err *DecodeError) Is(target error) bool {
	return target == ErrMalformed
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}
