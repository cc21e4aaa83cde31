package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Storefront domain errors
var (
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrEmptyCart               = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrMissingRequiredField    = NewDomainError("MISSING_REQUIRED_FIELD", "A required field is missing")
	ErrPasswordMismatch        = NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	ErrDuplicateUsername       = NewDomainError("DUPLICATE_USERNAME", "Username is already taken")
	ErrDuplicateEmail          = NewDomainError("DUPLICATE_EMAIL", "Email is already registered")
	ErrInvalidCredentials      = NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	ErrOrderPersistenceFailure = NewDomainError("ORDER_PERSISTENCE_FAILURE", "Order could not be persisted")
)
