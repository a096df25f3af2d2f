package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrForbidden indicates that the caller is not allowed to access the resource.
// The external message must stay generic and never name the failing check.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrDuplicateTransactionID indicates a transaction id collision on insert.
var ErrDuplicateTransactionID = errors.New("transaction id already exists")

// ErrDuplicateIdempotencyKey indicates a concurrent create won the race for
// the same idempotency key. Callers recover by re-reading the existing record.
var ErrDuplicateIdempotencyKey = errors.New("idempotency key already exists")

// ErrConversionConfig indicates the rate source is misconfigured or returned
// an unusable response. Not retryable without operator intervention.
var ErrConversionConfig = errors.New("currency conversion configuration error")

// ErrConversionUpstream indicates the rate source failed or timed out.
// Retryable by the caller.
var ErrConversionUpstream = errors.New("currency conversion upstream error")
