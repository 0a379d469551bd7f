package setup

import "fmt"

type UnsupportedDriverError struct {
	Driver string
}

func (e UnsupportedDriverError) Error() string {
	return fmt.Sprintf("store driver %q not supported", e.Driver)
}

func NewUnsupportedDriverError(d string) *UnsupportedDriverError {
	return &UnsupportedDriverError{
		Driver: d,
	}
}
