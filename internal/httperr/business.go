package httperr

import "errors"

// BusinessError carries a machine-readable outcome code across layer
// boundaries without committing to an HTTP status.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Shared outcome codes used by more than one layer.
const (
	CodeSlotTaken        = "slot_taken"
	CodeStaleVersion     = "stale_version"
	CodeNoStaffAvailable = "no_staff_available"
)
