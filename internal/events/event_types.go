package events

import (
	"time"

	"github.com/fusion-kit/auth-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPrincipalRegistered EventType = "principal_registered"
	EventPrincipalLoggedIn   EventType = "principal_logged_in"
	EventSessionsRevoked     EventType = "sessions_revoked"
	EventProductCreated      EventType = "product_created"
	EventProductDeleted      EventType = "product_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Store       domain.StoreContext `json:"store"`
	PrincipalID int64               `json:"principal_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// PrincipalRegisteredPayload payload.
type PrincipalRegisteredPayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// PrincipalLoggedInPayload payload.
type PrincipalLoggedInPayload struct {
	Username string `json:"username"`
}

// SessionsRevokedPayload payload.
type SessionsRevokedPayload struct {
	Reason string `json:"reason"`
}

// ProductCreatedPayload payload.
type ProductCreatedPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// ProductDeletedPayload payload.
type ProductDeletedPayload struct {
	ProductID string `json:"product_id"`
}
