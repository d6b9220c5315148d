package consumer

import (
	"context"
	"encoding/json"

	"go-faceattend/internal/events"
	"go-faceattend/internal/notify"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeIdentityLifecycle turns identity_registered events into welcome
// mail. Registration itself committed long before this runs, so a mail
// failure only delays the notification, never the registration.
func ConsumeIdentityLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notify.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.identity_lifecycle")
	log.Info("identity lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("identity lifecycle consumer stopped")
				return
			}
			log.Error("fetch identity lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.IdentityRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode identity_registered event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Email == "" {
			log.Debug("identity has no email, skipping welcome mail",
				zap.String("identity_id", event.IdentityID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := mailer.SendRegistrationWelcome(ctx, event.Email, event.Name, event.EmployeeID); err != nil {
			log.Error("send welcome mail failed",
				zap.String("identity_id", event.IdentityID),
				zap.String("email", event.Email),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit identity lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("welcome mail sent for registration",
			zap.String("identity_id", event.IdentityID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
