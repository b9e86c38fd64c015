package events

import "time"

// Audit event codes published to the NATS bus.
const (
	TypeUserRegistered    = "USER_REGISTERED"
	TypeUserLoggedIn      = "USER_LOGGED_IN"
	TypeProjectCreated    = "PROJECT_CREATED"
	TypeProjectDeleted    = "PROJECT_DELETED"
	TypeChatTurnCompleted = "CHAT_TURN_COMPLETED"
)

// Event is the contract for everything that crosses the event bus.
type Event interface {
	// EventType returns the unique code for this event (e.g. "USER_REGISTERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func newEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func NewUserRegistered(userId, email string) Event {
	return newEvent(TypeUserRegistered, map[string]interface{}{
		"user_id": userId,
		"email":   email,
	})
}

func NewUserLoggedIn(userId string) Event {
	return newEvent(TypeUserLoggedIn, map[string]interface{}{
		"user_id": userId,
	})
}

func NewProjectCreated(projectId, ownerId, name string) Event {
	return newEvent(TypeProjectCreated, map[string]interface{}{
		"project_id": projectId,
		"owner_id":   ownerId,
		"name":       name,
	})
}

func NewProjectDeleted(projectId, ownerId string) Event {
	return newEvent(TypeProjectDeleted, map[string]interface{}{
		"project_id": projectId,
		"owner_id":   ownerId,
	})
}

func NewChatTurnCompleted(sessionId, userId string, degraded bool) Event {
	return newEvent(TypeChatTurnCompleted, map[string]interface{}{
		"session_id": sessionId,
		"user_id":    userId,
		"degraded":   degraded,
	})
}
