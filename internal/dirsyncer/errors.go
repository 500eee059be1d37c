package dirsyncer

import (
	"errors"
	"fmt"
)

var (
	ErrNotADirectory = errors.New("does not exist or is not a directory")
	ErrTypeMismatch  = errors.New("same name is a file on one side and a directory on the other")
	ErrCycleDetected = errors.New("directory cycle detected")
)

//CopyError reports a failed copy step. Src is empty when the failure happened on the destination only.
type CopyError struct {
	Src, Dst string
	Err      error
}

func (e *CopyError) Error() string {
	if e.Src == "" {
		return fmt.Sprintf("cannot update %q: %v", e.Dst, e.Err)
	}
	return fmt.Sprintf("cannot copy %q to %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}
