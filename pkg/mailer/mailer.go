package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/brightcart/admin-api/pkg/config"
)

// ApprovalMail carries the data for a login approval notification.
type ApprovalMail struct {
	Username    string
	ClientIP    string
	ClientAgent string
	Token       string
	ApproveLink string
	RejectLink  string
}

// PaymentMail carries the data for a payment verification notification.
type PaymentMail struct {
	To          string
	OrderNumber string
	Amount      string
	Status      string
}

// Mailer delivers plain-text notifications over SMTP.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	adminTo string
	logger  *zap.Logger
}

// New constructs an SMTP mailer from configuration.
func New(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{dialer: dialer, from: cfg.From, adminTo: cfg.AdminTo, logger: logger}
}

// SendApprovalRequest emails the approval and rejection links to the store
// owner. A delivery failure is returned to the caller; the approval flow
// treats it as fatal since nobody would be able to act on the request.
func (m *Mailer) SendApprovalRequest(mail ApprovalMail) error {
	body := fmt.Sprintf(
		"A login to the admin panel was requested.\n\n"+
			"Username: %s\nIP: %s\nClient: %s\n\n"+
			"Approve: %s\nReject: %s\n\n"+
			"The request expires 10 minutes after issuance. Ignore this mail if you did not expect it.\n",
		mail.Username, mail.ClientIP, mail.ClientAgent, mail.ApproveLink, mail.RejectLink,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.adminTo)
	msg.SetHeader("Subject", fmt.Sprintf("Admin login approval requested for %s", mail.Username))
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("approval mail delivery failed", zap.String("username", mail.Username), zap.Error(err))
		return fmt.Errorf("send approval mail: %w", err)
	}
	return nil
}

// SendPaymentStatus notifies a customer that their payment was verified or
// rejected.
func (m *Mailer) SendPaymentStatus(mail PaymentMail) error {
	body := fmt.Sprintf(
		"Your payment for order %s (%s) has been %s.\n\n"+
			"If you have questions, reply to this mail.\n",
		mail.OrderNumber, mail.Amount, mail.Status,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", fmt.Sprintf("Payment %s for order %s", mail.Status, mail.OrderNumber))
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("payment mail delivery failed", zap.String("order", mail.OrderNumber), zap.Error(err))
		return fmt.Errorf("send payment mail: %w", err)
	}
	return nil
}
