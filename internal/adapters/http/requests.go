package http

import "github.com/penguin/core/internal/domain/entities"

// Request payloads. Binding failures are the only request errors this layer
// produces; valid-but-useless payloads (whitespace text, bad ids) flow into
// the state layer and no-op there.

// LoginRequest selects the active identity
type LoginRequest struct {
	Identity entities.Identity `json:"identity" validate:"required"`
}

// CreateGoalRequest adds a goal for the active identity. The fields carry no
// validate tags on purpose: a blank text or non-positive target is absorbed
// as a no-op downstream, not rejected here.
type CreateGoalRequest struct {
	Text   string `json:"text"`
	Target int    `json:"target"`
}

// ProgressRequest moves a goal's current value
type ProgressRequest struct {
	Delta int `json:"delta"`
}

// CreateSubgoalRequest adds a checklist step under a goal
type CreateSubgoalRequest struct {
	Text        string `json:"text"`
	Description string `json:"description"`
}

// CreateTextRequest covers todos, messages and rewards
type CreateTextRequest struct {
	Text string `json:"text"`
}

// MessageResponse is a generic message response
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionResponse reports the active identity
type SessionResponse struct {
	Identity entities.Identity `json:"identity"`
	Name     string            `json:"name"`
}
