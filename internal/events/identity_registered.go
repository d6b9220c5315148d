package events

import "time"

const IdentityRegisteredTopic = "attendance.identity.lifecycle.v1"

type IdentityRegisteredEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	IdentityID string    `json:"identity_id"`
	Name       string    `json:"name"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
