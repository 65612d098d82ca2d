package mail

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/pkg/config"
	"github.com/noah-isme/academix-api/pkg/jobs"
)

// JobType is the queue job type used for outbound mail.
const JobType = "mail.send"

// ErrNoRecipients is returned for messages without a To address.
var ErrNoRecipients = errors.New("message has no recipients")

// Message is a single outbound email.
type Message struct {
	To      []mail.Address
	Subject string
	Text    string
	HTML    string
}

// Validate checks that a message can be delivered.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	if strings.TrimSpace(m.Text) == "" && strings.TrimSpace(m.HTML) == "" {
		return errors.New("message has no content")
	}
	return nil
}

// Mailer delivers messages synchronously.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the mailer for the configured driver.
func New(cfg config.MailConfig, logger *zap.Logger) Mailer {
	from := mail.Address{Name: cfg.FromName, Address: cfg.FromAddress}
	if cfg.Driver == config.MailDriverSendgrid && cfg.SendgridAPIKey != "" {
		return NewSendgridMailer(cfg.SendgridAPIKey, from, cfg.SubjectPrefix)
	}
	return NewConsoleMailer(from, cfg.SubjectPrefix, logger)
}

// Dispatcher hands messages to a background queue so callers never wait on delivery.
type Dispatcher struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewDispatcher registers the mail job handler on queue.
func NewDispatcher(queue *jobs.Queue, mailer Mailer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	queue.Handle(JobType, func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(Message)
		if !ok {
			logger.Error("unexpected mail payload", zap.String("job_id", job.ID))
			return nil
		}
		return mailer.Send(ctx, msg)
	})
	return &Dispatcher{queue: queue, logger: logger}
}

// Dispatch enqueues msg and returns immediately.
func (d *Dispatcher) Dispatch(msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	id, err := d.queue.Enqueue(JobType, msg)
	if err != nil {
		return err
	}
	d.logger.Debug("mail queued", zap.String("job_id", id), zap.String("subject", msg.Subject))
	return nil
}

func joinAddresses(addrs []mail.Address) string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return strings.Join(out, ", ")
}
