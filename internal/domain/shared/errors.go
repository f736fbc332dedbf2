package shared

// DomainError represents a domain-level error. Sentinels below are compared
// by identity, so wrap them with %w to keep errors.Is working.
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
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Multi-tenant routing and consistency errors
var (
	// ErrSocietyRequired is returned when a request carries no society identifier.
	ErrSocietyRequired = NewDomainError("SOCIETY_REQUIRED", "Society identifier is required")
	// ErrTenantNotFound is a registry miss, or a descriptor without connection data.
	ErrTenantNotFound = NewDomainError("TENANT_NOT_FOUND", "Society not found")
	// ErrTenantUnreachable means the society store could not be opened. Nothing is cached.
	ErrTenantUnreachable = NewDomainError("TENANT_UNREACHABLE", "Society data store is unreachable")
	// ErrSequenceWriteFailed means the counter round trip failed; no value may be assumed consumed.
	ErrSequenceWriteFailed = NewDomainError("SEQUENCE_WRITE_FAILED", "Failed to issue slip number")
	// ErrNotifyFailed means the notification write failed; the triggering action stays committed.
	ErrNotifyFailed = NewDomainError("NOTIFY_FAILED", "Failed to deliver notifications")
)
