package bme69x

import "fmt"

// ResultCode is the outcome of a driver or transport call. Values match the
// BME69x driver API so codes can be compared with vendor documentation.
type ResultCode int8

const (
	OK               ResultCode = 0
	ErrNullPtr       ResultCode = -1
	ErrComFail       ResultCode = -2
	ErrDevNotFound   ResultCode = -3
	ErrInvalidLength ResultCode = -4
	ErrSelfTest      ResultCode = -5
	WarnNoNewData    ResultCode = 2
)

func (r ResultCode) String() string {
	switch r {
	case OK:
		return "OK"
	case ErrNullPtr:
		return "Null pointer"
	case ErrComFail:
		return "Communication failure"
	case ErrInvalidLength:
		return "Incorrect length parameter"
	case ErrDevNotFound:
		return "Device not found"
	case ErrSelfTest:
		return "Self test error"
	case WarnNoNewData:
		return "No new data found"
	default:
		return "Unknown error code"
	}
}

// IsWarning reports whether the code is a positive, non-fatal result.
func (r ResultCode) IsWarning() bool {
	return r > OK
}

func (r ResultCode) Error() string {
	return fmt.Sprintf("bme69x: %s (%d)", r.String(), int8(r))
}

// Err returns nil for OK and the code itself otherwise.
func (r ResultCode) Err() error {
	if r == OK {
		return nil
	}
	return r
}
