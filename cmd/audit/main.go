package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kidvibe-be/internal/config"
	"kidvibe-be/pkg/events"
	pktNats "kidvibe-be/pkg/nats"

	"github.com/fatih/color"
)

// Tails the audit event stream and writes each event to stdout. Useful
// for watching registrations, project activity and chat turns in
// development without a log aggregator.
func main() {
	cfg := config.Load()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Error: failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "audit-log", func(ctx context.Context, event events.Event) error {
		color.Cyan("[%s] %s %v", event.Timestamp().Format("15:04:05"), event.EventType(), event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Error: failed to subscribe: %v", err)
	}

	color.Green("Audit listener running on %s", cfg.App.NatsURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	color.Yellow("Shutting down audit listener")
}
