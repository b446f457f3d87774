// Package errors defines domain-specific error types.
// Using typed errors (instead of strings) allows clients to handle specific cases.
//
// Pattern: Sentinel Errors + Custom Error Types
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for domain validation
var (
	// Entity errors
	ErrInvalidEntityID     = errors.New("invalid entity ID")
	ErrEntityNotFound      = errors.New("entity not found")
	ErrEntityAlreadyExists = errors.New("entity already exists")

	// Customer errors
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrDuplicateCustomer = errors.New("customer with this email or phone already exists")

	// KYC errors
	ErrInvalidKYCStatus   = errors.New("invalid KYC status")
	ErrKYCAlreadyVerified = errors.New("KYC check is already in a terminal state")
	ErrKYCInProgress      = errors.New("a KYC check is already in progress")

	// Wallet errors
	ErrWalletNotActive  = errors.New("wallet is not active")
	ErrWalletSuspended  = errors.New("wallet is suspended")
	ErrWalletClosed     = errors.New("wallet is closed")
	ErrDuplicateWallet  = errors.New("customer already has a wallet in this currency")
	ErrNotWalletOwner   = errors.New("wallet does not belong to the customer")
	ErrSameWallet       = errors.New("source and destination wallets must differ")

	// Transaction errors
	ErrInsufficientBalance         = errors.New("insufficient balance")
	ErrInvalidTransactionType      = errors.New("invalid transaction type")
	ErrTransactionNotPending       = errors.New("transaction is not in pending state")
	ErrTransactionAlreadyProcessed = errors.New("transaction already processed")
	ErrLedgerUnbalanced            = errors.New("ledger entries do not balance")

	// Limit errors
	ErrDailyLimitExceeded   = errors.New("daily limit exceeded")
	ErrMonthlyLimitExceeded = errors.New("monthly limit exceeded")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// DomainError is a custom error type that wraps errors with additional context.
// This allows adding domain-specific information while maintaining the error chain.
type DomainError struct {
	Code    string // Machine-readable error code (e.g., "INSUFFICIENT_BALANCE")
	Message string // Human-readable message
	Err     error  // Underlying error (for error chains)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents validation failures with field-level details.
type ValidationError struct {
	Field   string // Field name that failed validation
	Message string // What went wrong
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(e))
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// BusinessRuleViolation represents a violation of a business rule.
// Unlike validation errors (which are about data format), these are about
// business logic: "cannot withdraw more than the daily limit" is a business
// rule, not a validation.
type BusinessRuleViolation struct {
	Rule    string                 // Rule that was violated (e.g., "DAILY_LIMIT")
	Message string                 // Human-readable explanation
	Context map[string]interface{} // Additional context (e.g., {"limit": 1000, "attempted": 1500})
}

// Error implements the error interface.
func (e BusinessRuleViolation) Error() string {
	return fmt.Sprintf("business rule violation [%s]: %s", e.Rule, e.Message)
}

// NewBusinessRuleViolation creates a new business rule violation error.
func NewBusinessRuleViolation(rule, message string, context map[string]interface{}) *BusinessRuleViolation {
	return &BusinessRuleViolation{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// LimitExceededError reports a breached transaction limit window.
// Carries enough context for the API to name the window and the amounts.
type LimitExceededError struct {
	Window         string // "DAILY" or "MONTHLY"
	LimitCents     int64
	UsedCents      int64
	AttemptedCents int64
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("%s limit exceeded: limit=%d used=%d attempted=%d",
		e.Window, e.LimitCents, e.UsedCents, e.AttemptedCents)
}

// Unwrap maps the window onto the matching sentinel so callers can use errors.Is.
func (e *LimitExceededError) Unwrap() error {
	if e.Window == "MONTHLY" {
		return ErrMonthlyLimitExceeded
	}
	return ErrDailyLimitExceeded
}

// NewLimitExceededError creates a limit breach error for the given window.
func NewLimitExceededError(window string, limit, used, attempted int64) *LimitExceededError {
	return &LimitExceededError{
		Window:         window,
		LimitCents:     limit,
		UsedCents:      used,
		AttemptedCents: attempted,
	}
}

// ConcurrencyError represents errors from concurrent access (optimistic locking).
type ConcurrencyError struct {
	EntityType string // e.g., "Wallet"
	EntityID   string // ID of the entity
	Message    string
}

// Error implements the error interface.
func (e ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency error on %s [%s]: %s", e.EntityType, e.EntityID, e.Message)
}

// NewConcurrencyError creates a new concurrency error.
func NewConcurrencyError(entityType, entityID, message string) *ConcurrencyError {
	return &ConcurrencyError{
		EntityType: entityType,
		EntityID:   entityID,
		Message:    message,
	}
}

// Helper functions for common error checking

// IsNotFound checks if an error is an "entity not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound) || errors.Is(err, ErrCustomerNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var valErr ValidationError
	var valErrs ValidationErrors
	return errors.As(err, &valErr) || errors.As(err, &valErrs)
}

// IsValidation is a shorter alias for IsValidationError.
func IsValidation(err error) bool {
	return IsValidationError(err)
}

// IsBusinessRuleViolation checks if an error is a business rule violation.
func IsBusinessRuleViolation(err error) bool {
	var brv *BusinessRuleViolation
	return errors.As(err, &brv)
}

// IsLimitExceeded checks if an error reports a breached limit window.
func IsLimitExceeded(err error) bool {
	var le *LimitExceededError
	return errors.As(err, &le)
}

// IsConcurrencyError checks if an error is a concurrency error.
func IsConcurrencyError(err error) bool {
	var ce *ConcurrencyError
	return errors.As(err, &ce)
}

// IsConflict checks for uniqueness/duplicate conflicts surfaced by repositories.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEntityAlreadyExists) ||
		errors.Is(err, ErrDuplicateCustomer) ||
		errors.Is(err, ErrDuplicateWallet)
}
