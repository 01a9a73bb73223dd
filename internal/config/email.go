package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrEmailDisabled = errors.New("email delivery is not configured")

type emailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	from    string
	sender  emailSender
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewEmailService builds a Resend-backed mailer. Without RESEND_API_KEY the
// service stays up but every send returns ErrEmailDisabled.
func NewEmailService(lc fx.Lifecycle, cfg *Config, log *zap.Logger) *EmailService {
	service := &EmailService{
		from:    cfg.FromEmail,
		breaker: NewCircuitBreaker("Resend-Email", log),
		log:     log.Named("email"),
	}
	if cfg.ResendAPIKey != "" {
		service.sender = resend.NewClient(cfg.ResendAPIKey).Emails
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if service.sender == nil {
				service.log.Warn("RESEND_API_KEY not set, email delivery disabled")
			} else {
				service.log.Info("email service initialized", zap.String("from", service.from))
			}
			return nil
		},
	})
	return service
}

func (e *EmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	if e.sender == nil {
		return ErrEmailDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := e.breaker.Execute(func() (interface{}, error) {
		return e.sender.Send(&resend.SendEmailRequest{
			From:    e.from,
			To:      []string{to},
			Subject: subject,
			Html:    body,
		})
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	e.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
