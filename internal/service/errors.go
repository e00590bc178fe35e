package service

import "fmt"

// Error is a rejection with the HTTP status that codes its category. The
// message goes to the caller verbatim; device firmware matches on it.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrMethodNotAllowed  = &Error{Status: 405, Message: "Method not allowed"}
	ErrNoData            = &Error{Status: 400, Message: "No data received"}
	ErrBadJSON           = &Error{Status: 400, Message: "Invalid JSON format"}
	ErrInvalidTankID     = &Error{Status: 400, Message: "Invalid tank_id"}
	ErrInvalidLevel      = &Error{Status: 400, Message: "Invalid level value"}
	ErrInvalidPercentage = &Error{Status: 400, Message: "Invalid percentage value"}
	ErrInvalidAPIKey     = &Error{Status: 401, Message: "Invalid API key"}
	ErrRateLimited       = &Error{Status: 429, Message: "Rate limit exceeded"}
	ErrDBConnection      = &Error{Status: 500, Message: "Database connection failed"}
	ErrStoreFailed       = &Error{Status: 500, Message: "Failed to store data"}
)

func errMissingField(name string) *Error {
	return &Error{Status: 400, Message: fmt.Sprintf("Missing required field: %s", name)}
}
