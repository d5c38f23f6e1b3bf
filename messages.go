package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/repnote/internal/bus"
	"github.com/anatolykoptev/repnote/internal/extract"
)

// runMessageLoop processes inbound bus messages through the agent loop and
// publishes replies back to the sender's channel.
func runMessageLoop(ctx context.Context, msgBus *bus.Bus, stack *agentStack) {
	for {
		msg, ok := msgBus.ConsumeInbound(ctx)
		if !ok {
			return
		}

		log := slog.With(
			slog.String("channel", msg.Channel),
			slog.String("sender", msg.SenderID))
		log.Info("processing message", slog.Int("len", len(msg.Text)))

		start := time.Now()
		res, err := stack.loop.Process(ctx, msg.Text)
		if err != nil {
			log.Error("message processing failed", slog.Any("error", err))
			msgBus.PublishOutbound(bus.Message{
				ID:        msg.ID + "-reply",
				Channel:   msg.Channel,
				ChatID:    msg.ChatID,
				Text:      "Sorry, I couldn't reach the model right now. Please try again.",
				Timestamp: time.Now(),
			})
			continue
		}

		log.Info("message processed",
			slog.Int("turns", res.Turns),
			slog.Duration("duration", time.Since(start).Round(time.Millisecond)))

		msgBus.PublishOutbound(bus.Message{
			ID:        msg.ID + "-reply",
			Channel:   msg.Channel,
			ChatID:    msg.ChatID,
			Text:      extract.DisplayText(res.History),
			Timestamp: time.Now(),
		})
	}
}
