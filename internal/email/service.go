package email

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/medhub/clinic-api/internal/config"
)

// Service sends patient-facing notifications. All sends are best effort;
// callers log failures and move on.
type Service interface {
	SendBookingConfirmation(to, patientName string, appointmentTime time.Time) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig, logger zerolog.Logger) Service {
	if !cfg.Enabled {
		logger.Info().Msg("smtp disabled, booking confirmations will not be sent")
		return &noopService{}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendBookingConfirmation(to, patientName string, appointmentTime time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your appointment is booked")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s has been booked.\n\nSmart Clinic",
		patientName,
		appointmentTime.Format("Mon, 02 Jan 2006 15:04"),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}
	return nil
}

type noopService struct{}

func (n *noopService) SendBookingConfirmation(string, string, time.Time) error {
	return nil
}
