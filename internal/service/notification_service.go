package service

import (
	"context"
	"fmt"
	"html"
	netmail "net/mail"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academix-api/pkg/mail"
)

type mailDispatcher interface {
	Dispatch(msg mail.Message) error
}

// NotificationService composes outbound emails and hands them to the mail queue.
type NotificationService struct {
	dispatcher mailDispatcher
	metrics    *MetricsService
	codeTTL    time.Duration
	logger     *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(dispatcher mailDispatcher, metrics *MetricsService, codeTTL time.Duration, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{dispatcher: dispatcher, metrics: metrics, codeTTL: codeTTL, logger: logger}
}

// SendVerificationCode queues the sign-up code email. It never waits on delivery.
func (s *NotificationService) SendVerificationCode(_ context.Context, email, name, code string) error {
	msg := mail.Message{
		To:      []netmail.Address{{Name: name, Address: email}},
		Subject: "Your verification code",
		Text: fmt.Sprintf("Hello %s,\n\nYour Academix verification code is %s.\nIt expires in %d minutes.\n\nIf you did not sign up, ignore this email.\n",
			greetingName(name), code, int(s.codeTTL.Minutes())),
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>Your Academix verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
			html.EscapeString(greetingName(name)), html.EscapeString(code), int(s.codeTTL.Minutes())),
	}
	err := s.dispatcher.Dispatch(msg)
	s.metrics.RecordMailJob(err == nil)
	if err != nil {
		return fmt.Errorf("queue verification email: %w", err)
	}
	s.logger.Debug("verification email queued", zap.String("email", email))
	return nil
}

func greetingName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
