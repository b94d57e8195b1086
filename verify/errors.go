package verify

import "errors"

var (
	// ErrAccountingMismatch indicates that the segment count derived from
	// the observed cumulative acknowledgment differs from the count the
	// instrumented congestion control reported.
	ErrAccountingMismatch = errors.New("acknowledged segments not fully accounted")

	// ErrNilControl indicates that an instrumented adapter was constructed
	// without a wrapped algorithm.
	ErrNilControl = errors.New("wrapped congestion control is nil")

	// ErrNilObserver indicates that an instrumented adapter was constructed
	// without an observer callback. The adapter exists to report accounting
	// calls, so an observer is mandatory.
	ErrNilObserver = errors.New("accounting observer is nil")

	// ErrDuplicateScenario indicates that a scenario with the same
	// description is already registered.
	ErrDuplicateScenario = errors.New("scenario already registered")

	// ErrEmptyDescription indicates a scenario without a description.
	ErrEmptyDescription = errors.New("scenario description is empty")
)
