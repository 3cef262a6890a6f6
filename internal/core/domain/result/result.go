package result

import "net/http"

// Status is the outcome protocol shared by repository and workflow
// operations. Expected outcomes, including rejections, travel as a
// Status; only infrastructure failures travel as Go errors.
type Status string

const (
	// Invalid marks a rejected request: missing arguments, an empty
	// filter or a target row that does not exist.
	Invalid Status = "INVALID"
	// Conflict marks a registration that collides with an existing
	// username or email.
	Conflict Status = "CONFLICT"
	// Created marks a successful insert.
	Created Status = "CREATED"
	// Success marks a successful read or update.
	Success Status = "SUCCESS"
	// Deleted marks a completed delete, regardless of how many rows
	// actually matched.
	Deleted Status = "DELETED"
	// Failed marks an operation that was accepted but could not be
	// completed, such as an undeliverable verification mail.
	Failed Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the protocol's statuses.
func (s Status) IsValid() bool {
	switch s {
	case Invalid, Conflict, Created, Success, Deleted, Failed:
		return true
	}
	return false
}

// HTTPStatus maps the outcome onto the transport.
func (s Status) HTTPStatus() int {
	switch s {
	case Created:
		return http.StatusCreated
	case Success, Deleted:
		return http.StatusOK
	case Invalid:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Successful reports whether the outcome lets a workflow proceed.
func (s Status) Successful() bool {
	switch s {
	case Invalid, Conflict, Failed:
		return false
	}
	return true
}
