package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain/notification"
)

// Sender delivers a message over one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender stands in for an email or SMS provider.
type LogSender struct {
	Channel string
	Log     *zap.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	to := msg.Recipient.Email
	if s.Channel == notification.ChannelSMS {
		to = msg.Recipient.Phone
	}
	if to == "" {
		return fmt.Errorf("%s: recipient has no address", s.Channel)
	}
	s.Log.Info("notification delivered",
		zap.String("channel", s.Channel),
		zap.String("notification_id", msg.NotificationID),
		zap.String("to", to),
	)
	return nil
}

type Dispatcher struct {
	senders map[string]Sender
	log     *zap.Logger
}

func NewDispatcher(senders map[string]Sender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{senders: senders, log: log}
}

// Deliver sends msg on every one of its channels and joins the failures.
// Delivery is at least once per channel: a failed record is redelivered whole,
// so senders must treat NotificationID plus channel as an idempotency key.
func (d *Dispatcher) Deliver(ctx context.Context, msg Message) error {
	var errs []error
	for _, ch := range msg.Channels {
		s, ok := d.senders[ch]
		if !ok {
			errs = append(errs, fmt.Errorf("no sender for channel %q", ch))
			continue
		}
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("delivering %s over %s: %w", msg.NotificationID, ch, err))
		}
	}
	return errors.Join(errs...)
}

// HandleSQS delivers a batch and reports only the failed records, so SQS
// redelivers those and deletes the rest. Undecodable bodies are dropped since
// a retry cannot fix them.
func (d *Dispatcher) HandleSQS(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, record := range event.Records {
		msg, err := Decode([]byte(record.Body))
		if err != nil {
			d.log.Warn("dropping malformed message", zap.String("message_id", record.MessageId), zap.Error(err))
			continue
		}

		if err := d.Deliver(ctx, msg); err != nil {
			d.log.Error("delivery failed", zap.String("message_id", record.MessageId), zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
		}
	}

	return resp, nil
}
