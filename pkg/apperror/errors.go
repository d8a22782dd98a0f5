// Package apperror provides a structured way to handle errors raised by
// the coloring and dual-MCF solver cores, with specific codes, severity
// levels, and additional details. It also includes a conversion to gRPC
// status errors so a future RPC front-end can wrap these unchanged.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Input validation (spec §7: "Invalid input").
	CodeInvalidEdgeWeight         ErrorCode = "INVALID_EDGE_WEIGHT"
	CodeEmptyGraph                ErrorCode = "EMPTY_GRAPH"
	CodeBadPrecoloring            ErrorCode = "BAD_PRECOLORING"
	CodeNonDifferentialConstraint ErrorCode = "NON_DIFFERENTIAL_CONSTRAINT"
	CodeInvalidBounds             ErrorCode = "INVALID_BOUNDS"
	CodeNilInput                  ErrorCode = "NIL_INPUT"
	CodeInvalidAlgorithm          ErrorCode = "INVALID_ALGORITHM"

	// Solver infeasibility (spec §7: "Solver infeasible").
	CodeColoringInfeasible ErrorCode = "COLORING_INFEASIBLE"
	CodeFlowInfeasible     ErrorCode = "FLOW_INFEASIBLE"
	CodeFlowUnbounded      ErrorCode = "FLOW_UNBOUNDED"

	// Non-termination guard (spec §7).
	CodeIterationBudgetExceeded ErrorCode = "ITERATION_BUDGET_EXCEEDED"

	// General.
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue (e.g. a redundant odd-cycle cut).
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a bug-signaling condition (spec §7: coloring infeasibility).
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is the error type returned across package boundaries by both
// solver cores. It carries a code, a human-readable message, optional
// structured details, an optional wrapped cause, and a severity.
type Error struct {
	Code     ErrorCode
	Message  string
	Details  map[string]any
	Cause    error
	Severity Severity
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, allowing errors.Is/errors.As to see through it.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GRPCStatus converts the error into a gRPC status.Status, for callers
// that front this module with an RPC service (out of scope here).
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.grpcCode(), e.Message)
}

func (e *Error) grpcCode() codes.Code {
	switch e.Code {
	case CodeInvalidEdgeWeight, CodeEmptyGraph, CodeBadPrecoloring,
		CodeNonDifferentialConstraint, CodeInvalidBounds, CodeNilInput,
		CodeInvalidAlgorithm:
		return codes.InvalidArgument
	case CodeColoringInfeasible:
		return codes.Internal
	case CodeFlowInfeasible:
		return codes.FailedPrecondition
	case CodeFlowUnbounded:
		return codes.OutOfRange
	case CodeIterationBudgetExceeded:
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// New creates an *Error with SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: make(map[string]any), Severity: SeverityError}
}

// NewCritical creates an *Error with SeverityCritical, for conditions the
// spec documents as bugs rather than expected failures (e.g. the
// coloring LP going infeasible despite a feasible-by-construction model).
func NewCritical(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: make(map[string]any), Severity: SeverityCritical}
}

// NewWarning creates an *Error with SeverityWarning.
func NewWarning(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: make(map[string]any), Severity: SeverityWarning}
}

// Wrap creates an *Error that wraps an existing cause.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Details: make(map[string]any), Severity: SeverityError}
}

// WithDetails records a key-value pair in the error's details map.
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from err, or CodeInternal if err is not an *Error.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// ToGRPC converts err into a gRPC error status.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GRPCStatus().Err()
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, err.Error())
}

// Predefined sentinel errors for common scenarios.
var (
	ErrEmptyGraph       = New(CodeEmptyGraph, "conflict graph has no vertices")
	ErrNilInput         = New(CodeNilInput, "nil input model")
	ErrColoringBug      = NewCritical(CodeColoringInfeasible, "coloring LP relaxation reported infeasible (model is feasible by construction)")
	ErrIterationBudget  = New(CodeIterationBudgetExceeded, "non-integer census failed to decrease within the iteration budget")
	ErrFlowInfeasible   = New(CodeFlowInfeasible, "min-cost flow is infeasible")
	ErrFlowUnbounded    = New(CodeFlowUnbounded, "min-cost flow is unbounded")
)
