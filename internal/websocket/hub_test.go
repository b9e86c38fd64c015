package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type noopHubLogger struct{}

func (noopHubLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopHubLogger) Info(module, message string, details map[string]interface{})  {}
func (noopHubLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopHubLogger) Error(module, message string, details map[string]interface{}) {}
func (noopHubLogger) Sync() error                                                  { return nil }

func TestHubDropsSlowClientAndKeepsRunning(t *testing.T) {
	hub := NewHub(nil, noopHubLogger{})
	go hub.Run()

	userId := uuid.New()

	slow := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 1)}
	hub.register <- slow
	slow.Send <- []byte("backlog") // buffer now full

	healthy := &Client{Hub: hub, UserID: userId, Send: make(chan []byte, 8)}
	hub.register <- healthy

	hub.Send(userId, Update{Type: UpdateTypeChatTurn, SessionId: uuid.NewString()})

	select {
	case data := <-healthy.Send:
		assert.Contains(t, string(data), UpdateTypeChatTurn)
	case <-time.After(time.Second):
		t.Fatal("healthy client did not receive the update")
	}

	// The slow client drains its backlog and then sees the channel
	// closed exactly once by the unregister path.
	assert.Equal(t, "backlog", string(<-slow.Send))
	select {
	case _, ok := <-slow.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("slow client channel was not closed")
	}

	// The hub goroutine survives the drop and keeps delivering.
	hub.Send(userId, Update{Type: UpdateTypeSessionTitle, SessionId: uuid.NewString(), Title: "renamed"})
	select {
	case data := <-healthy.Send:
		assert.Contains(t, string(data), UpdateTypeSessionTitle)
	case <-time.After(time.Second):
		t.Fatal("hub stopped delivering after dropping a client")
	}
}
