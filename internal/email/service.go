package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/sportivai/federation-api/internal/model"
)

// Config carries SMTP settings. An empty Host leaves the sender disabled;
// sends are then logged and skipped instead of failing.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	BaseURL  string `mapstructure:"base_url"`
}

// Service sends the transactional mail the platform produces: quote
// confirmations to prospects and invitations to future members.
type Service struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *zerolog.Logger
}

func NewService(cfg Config, logger *zerolog.Logger) *Service {
	s := &Service{cfg: cfg, logger: logger}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s
}

// SendDevisConfirmation acknowledges a quote request to the prospect.
func (s *Service) SendDevisConfirmation(ctx context.Context, devis *model.Devis) error {
	body := fmt.Sprintf(
		"Hello %s,<br><br>We received your quote request <b>%s</b>. Our team will get back to you shortly.",
		devis.ContactName, devis.Reference,
	)
	return s.send(devis.ContactEmail, fmt.Sprintf("Quote request %s received", devis.Reference), body)
}

// SendInvitation delivers the registration link for an invitation.
func (s *Service) SendInvitation(ctx context.Context, invitation *model.Invitation) error {
	link := fmt.Sprintf("%s/register?token=%s", s.cfg.BaseURL, invitation.Token)
	body := fmt.Sprintf(
		"Hello,<br><br>You have been invited to join the federation platform as %s. "+
			"<a href=%q>Complete your registration</a> before %s.",
		invitation.Role, link, invitation.ExpiresAt.Format("2006-01-02"),
	)
	return s.send(invitation.Email, "You are invited to the federation platform", body)
}

func (s *Service) send(to, subject, htmlBody string) error {
	if s.dialer == nil {
		s.logger.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, skipping email")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
