// errors.go: structured error handling for hood table and cache operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes.
// Ordinary outcomes (a rejected insert, an absent key) are never errors.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package hood

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for hood operations
const (
	// Configuration errors
	ErrCodeInvalidConfig     errors.ErrorCode = "HOOD_INVALID_CONFIG"
	ErrCodeInvalidCapacity   errors.ErrorCode = "HOOD_INVALID_CAPACITY"
	ErrCodeInvalidLoadFactor errors.ErrorCode = "HOOD_INVALID_LOAD_FACTOR"

	// Operation errors
	ErrCodeInvalidIndex errors.ErrorCode = "HOOD_INVALID_INDEX"
	ErrCodeTableFull    errors.ErrorCode = "HOOD_TABLE_FULL"
	ErrCodeKeyNotFound  errors.ErrorCode = "HOOD_KEY_NOT_FOUND"

	// Loader errors
	ErrCodeLoaderFailed  errors.ErrorCode = "HOOD_LOADER_FAILED"
	ErrCodeInvalidLoader errors.ErrorCode = "HOOD_INVALID_LOADER"

	// Internal errors
	ErrCodeInvariantViolation errors.ErrorCode = "HOOD_INVARIANT_VIOLATION"
	ErrCodePanicRecovered     errors.ErrorCode = "HOOD_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidCapacity    = "invalid capacity: must be greater than 0"
	msgInvalidLoadFactor  = "invalid max load factor: must be in (0, 1]"
	msgInvalidIndex       = "slot index is out of range or not occupied"
	msgTableFull          = "table is full and cannot grow"
	msgKeyNotFound        = "key not found"
	msgLoaderFailed       = "loader function failed"
	msgInvalidLoader      = "loader function cannot be nil"
	msgInvariantViolation = "internal invariant violated"
	msgPanicRecovered     = "panic recovered in cache operation"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidCapacity creates an error for a non-positive capacity
func NewErrInvalidCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  1,
	})
}

// NewErrInvalidLoadFactor creates an error for an unusable max load factor
func NewErrInvalidLoadFactor(factor float64) error {
	return errors.NewWithContext(ErrCodeInvalidLoadFactor, msgInvalidLoadFactor, map[string]interface{}{
		"provided_factor": factor,
		"valid_range":     "0.0 < factor <= 1.0",
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrInvalidIndex creates an error for a slot index that does not address a live entry
func NewErrInvalidIndex(index int, capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidIndex, msgInvalidIndex, map[string]interface{}{
		"index":    index,
		"capacity": capacity,
	})
}

// NewErrTableFull creates an error when a resize cannot hold the live entries
func NewErrTableFull(capacity int, size int) error {
	return errors.NewWithContext(ErrCodeTableFull, msgTableFull, map[string]interface{}{
		"capacity":     capacity,
		"current_size": size,
	}).AsRetryable()
}

// NewErrKeyNotFound creates an error when key is not found
func NewErrKeyNotFound(key interface{}) error {
	return errors.NewWithField(ErrCodeKeyNotFound, msgKeyNotFound, "key", fmt.Sprintf("%v", key))
}

// =============================================================================
// LOADER ERRORS
// =============================================================================

// NewErrLoaderFailed creates an error when loader function fails
func NewErrLoaderFailed(key interface{}, cause error) error {
	return errors.Wrap(cause, ErrCodeLoaderFailed, msgLoaderFailed).
		WithContext("key", fmt.Sprintf("%v", key)).
		AsRetryable()
}

// NewErrInvalidLoader creates an error when loader function is nil
func NewErrInvalidLoader(key interface{}) error {
	return errors.NewWithField(ErrCodeInvalidLoader, msgInvalidLoader, "key", fmt.Sprintf("%v", key))
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInvariantViolation creates the error handed to Config.Abort when a
// condition the table or cache guarantees cannot happen has happened anyway.
func NewErrInvariantViolation(operation string, details map[string]interface{}) error {
	ctx := make(map[string]interface{}, len(details)+1)
	for k, v := range details {
		ctx[k] = v
	}
	ctx["operation"] = operation
	return errors.NewWithContext(ErrCodeInvariantViolation, msgInvariantViolation, ctx).
		WithSeverity("critical")
}

// NewErrPanicRecovered creates an error when a panic is recovered
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsNotFound checks if error is a key not found error
func IsNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsInvalidIndex checks if error is an invalid slot index error
func IsInvalidIndex(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidIndex)
}

// IsTableFull checks if error is a table full error
func IsTableFull(err error) bool {
	return errors.HasCode(err, ErrCodeTableFull)
}

// IsInvariantViolation checks if error reports a broken internal invariant
func IsInvariantViolation(err error) bool {
	return errors.HasCode(err, ErrCodeInvariantViolation)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidCapacity, ErrCodeInvalidLoadFactor:
		return true
	}
	return false
}

// IsLoaderError checks if error is a loader error
func IsLoaderError(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeLoaderFailed, ErrCodeInvalidLoader:
		return true
	}
	return false
}

// IsRetryable checks if the error can be retried
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var hoodErr *errors.Error
	if goerrors.As(err, &hoodErr) {
		return hoodErr.Context
	}
	return nil
}
