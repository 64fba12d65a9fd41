package domain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive  = "active"
	StatusDeleted = "deleted"

	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	MessageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrParseUUID      = NewError(ErrValidation, "failed to parse UUID")
	ErrUserNotAllowed = NewError(ErrForbidden, "user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Error kinds. Every catalog error unwraps to exactly one of these.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrForbidden   = errors.New("forbidden")
	ErrConsistency = errors.New("consistency failure")
)

type Error struct {
	Kind    error
	Message string
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// InactiveDishesError rejects a restaurant assignment and names every id that
// does not refer to an active dish.
type InactiveDishesError struct {
	IDs []string
}

func (e *InactiveDishesError) Error() string {
	return fmt.Sprintf("dishes not found or inactive: %s", strings.Join(e.IDs, ", "))
}

func (e *InactiveDishesError) Unwrap() error { return ErrValidation }

// ConsistencyError reports an aggregate that could not be recomputed.
type ConsistencyError struct {
	Target   string
	TargetID string
	Attempts int
	Err      error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s %s rating aggregate is stale after %d attempts: %v", e.Target, e.TargetID, e.Attempts, e.Err)
}

func (e *ConsistencyError) Unwrap() []error { return []error{ErrConsistency, e.Err} }

type (
	PaginationRequest struct {
		Page  int `query:"page" validate:"omitempty,min=1"`
		Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
	}

	PaginationResponse struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

// Normalize fills defaults and clamps the limit.
func (p PaginationRequest) Normalize() PaginationRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPaginationResponse(p PaginationRequest, total int64) PaginationResponse {
	return PaginationResponse{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}
}
