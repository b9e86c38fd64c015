package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"kidvibe-be/internal/entity"
	"kidvibe-be/internal/repository/unitofwork"
	"kidvibe-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// titleMaxLen caps auto-derived session titles.
const titleMaxLen = 50

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService processes completed chat turns off the internal bus.
// It derives a session title from the first user message and pushes a
// websocket update so open clients refresh without polling.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	wsHub      *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	wsHub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		wsHub:      wsHub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload ChatTurnMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn message: %v", err)
		// Ack invalid messages to prevent infinite retry.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOneById(ctx, payload.SessionId)
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", payload.SessionId, err)
		msg.Nack()
		return
	}
	if session == nil {
		// Session deleted between the turn and this message.
		msg.Ack()
		return
	}

	titled := false
	if session.Title == entity.DefaultSessionTitle && strings.TrimSpace(payload.UserMessage) != "" {
		session.Title = deriveTitle(payload.UserMessage)
		now := time.Now()
		session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			log.Printf("[ERROR] Failed to update session title %s: %v", session.Id, err)
			msg.Nack()
			return
		}
		titled = true
	}

	if cs.wsHub != nil {
		cs.wsHub.Send(payload.UserId, websocket.Update{
			Type:      websocket.UpdateTypeChatTurn,
			SessionId: session.Id.String(),
			Degraded:  payload.Degraded,
		})
		if titled {
			cs.wsHub.Send(payload.UserId, websocket.Update{
				Type:      websocket.UpdateTypeSessionTitle,
				SessionId: session.Id.String(),
				Title:     session.Title,
			})
		}
	}

	msg.Ack()
}

// deriveTitle turns the first user message into a short session title.
func deriveTitle(userMessage string) string {
	title := strings.Join(strings.Fields(userMessage), " ")
	runes := []rune(title)
	if len(runes) > titleMaxLen {
		title = strings.TrimSpace(string(runes[:titleMaxLen])) + "..."
	}
	return title
}
