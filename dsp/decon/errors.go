package decon

import "errors"

// Errors returned by deconvolution.
var (
	ErrInvalidInput       = errors.New("decon: invalid input")
	ErrNumericInstability = errors.New("decon: numeric instability")
	ErrCancelled          = errors.New("decon: cancelled")
	ErrDivisionByZero     = errors.New("decon: division by zero in deconvolution")
)
