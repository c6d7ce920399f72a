package services

import (
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"gopkg.in/gomail.v2"

	"spice/internal/config"
	"spice/internal/logger"
)

// Mailer delivers composed messages. *gomail.Dialer satisfies it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// drainTimeout bounds how long Close waits for queued mail.
const drainTimeout = 10 * time.Second

// notificationService sends transactional e-mail through the SMTP relay of
// the mail provider. Enqueued messages are sent by a bounded worker pool.
type notificationService struct {
	mailer   Mailer
	from     string
	fromName string
	pool     *ants.Pool
}

// NewNotificationService creates a NotificationServicer from configuration.
// Without SMTP_HOST every send is logged and dropped.
func NewNotificationService(cfg *config.Config) (NotificationServicer, error) {
	var mailer Mailer
	if cfg.MailEnabled() {
		mailer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return NewNotificationServiceWithMailer(mailer, cfg.MailFrom, cfg.MailFromName, cfg.MailWorkers)
}

// NewNotificationServiceWithMailer creates a NotificationServicer around
// mailer with at most workers concurrent sends.
func NewNotificationServiceWithMailer(mailer Mailer, from, fromName string, workers int) (NotificationServicer, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			logger.Get().Errorw("panic in mail worker", "panic", p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create mail worker pool: %w", err)
	}
	return &notificationService{mailer: mailer, from: from, fromName: fromName, pool: pool}, nil
}

// Enqueue hands the message to a mail worker and returns immediately. It
// returns false when every worker is busy or the service is closed; the
// message is logged and dropped in that case.
func (s *notificationService) Enqueue(to, subject, htmlBody string) bool {
	if err := s.pool.Submit(func() { s.SendEmail(to, subject, htmlBody) }); err != nil {
		logger.Get().Warnw("email dropped",
			"to", to,
			"subject", subject,
			"error", err,
		)
		return false
	}
	return true
}

// Close waits for in-flight sends and stops the workers.
func (s *notificationService) Close() {
	if err := s.pool.ReleaseTimeout(drainTimeout); err != nil {
		logger.Get().Warnw("mail workers did not drain", "error", err)
	}
}

// SendEmail sends htmlBody to one recipient. It reports whether the relay
// accepted the message; failures are logged and never returned.
func (s *notificationService) SendEmail(to, subject, htmlBody string) bool {
	log := logger.Get()

	if s.mailer == nil {
		log.Warnw("mail relay not configured, dropping email",
			"to", to,
			"subject", subject,
		)
		return false
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", htmlBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.mailer.DialAndSend(m); err != nil {
		log.Errorw("failed to send email",
			"to", to,
			"subject", subject,
			"error", err,
		)
		return false
	}

	log.Infow("email sent", "to", to, "subject", subject)
	return true
}
