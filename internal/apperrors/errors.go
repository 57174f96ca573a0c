package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation lost to concurrent state, such as
// an active migration already existing for the fund. Terminal; never retried.
var ErrConflict = errors.New("conflicting state")

// ErrGuardRejected indicates that a pricing-timeline rule refused the
// operation. The wrapping error names the specific rule that failed.
var ErrGuardRejected = errors.New("pricing timeline guard rejected")

// ErrUpstreamUnavailable indicates that a collaborator call failed or timed
// out. Surfaced for manual retry; journal posting is never retried implicitly.
var ErrUpstreamUnavailable = errors.New("upstream collaborator unavailable")

// ErrInconsistent indicates that a post-reconciliation comparison still
// exceeds tolerance. This signals an upstream bug, not a user error, and
// blocks the bookclose transition.
var ErrInconsistent = errors.New("post-reconciliation balances inconsistent")
