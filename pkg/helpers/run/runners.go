package run

import (
	"errors"
	"fmt"
)

//ErrPanic marks errors that were recovered from a panic.
var ErrPanic = errors.New("panic")

//WithError calls fn and converts a panic inside it into a returned error.
//A panic value that is itself an error stays reachable through errors.Is/As.
func WithError(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanic, perr)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanic, p)
			}
		}
	}()

	return fn()
}
