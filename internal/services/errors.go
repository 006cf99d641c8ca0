package services

import "errors"

// Service errors
var (
	ErrNoRiskData      = errors.New("no risk data")
	ErrAlertNotFound   = errors.New("alert not found")
	ErrInvalidWeights  = errors.New("invalid weights")
	ErrInvalidBacktest = errors.New("invalid backtest request")
)

// serviceError carries a client facing message for one of the sentinels
type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }

func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}
