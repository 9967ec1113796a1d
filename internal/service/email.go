package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"rental-portal-backend/internal/domain"
	"rental-portal-backend/internal/logger"
	"rental-portal-backend/internal/utils"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
)

// mailSender is satisfied by *sendgrid.Client.
type mailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client mailSender
	from   *mail.Email
}

// NewEmailService sends through SendGrid. Without an API key every message
// is written to the log instead.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return &logEmailService{}
	}
	return newEmailService(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newEmailService(client mailSender, fromEmail, fromName string) *emailService {
	return &emailService{client: client, from: mail.NewEmail(fromName, fromEmail)}
}

func (s *emailService) SendApplicationDecision(ctx context.Context, email, name, propertyTitle string, status domain.ApplicationStatus) error {
	subject, body := decisionMessage(name, propertyTitle, status)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, name, propertyTitle string, dueDate time.Time, amount decimal.Decimal) error {
	subject, body := overdueMessage(name, propertyTitle, dueDate, amount)
	return s.send(ctx, email, name, subject, body)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", to, "subject", subject)

	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(body), "\n\n", "</p><p>") + "</p>"
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(toName, to), body, htmlBody)

	response, err := s.client.Send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type logEmailService struct{}

func (logEmailService) SendApplicationDecision(ctx context.Context, email, name, propertyTitle string, status domain.ApplicationStatus) error {
	subject, _ := decisionMessage(name, propertyTitle, status)
	logger.WithService("email").InfoContext(ctx, "Email (not sent, no provider configured)", "to", email, "subject", subject)
	return nil
}

func (logEmailService) SendOverdueReminder(ctx context.Context, email, name, propertyTitle string, dueDate time.Time, amount decimal.Decimal) error {
	subject, _ := overdueMessage(name, propertyTitle, dueDate, amount)
	logger.WithService("email").InfoContext(ctx, "Email (not sent, no provider configured)", "to", email, "subject", subject)
	return nil
}

func decisionMessage(name, propertyTitle string, status domain.ApplicationStatus) (string, string) {
	if status == domain.ApplicationStatusApproved {
		return fmt.Sprintf("Your application for %s was approved", propertyTitle),
			fmt.Sprintf("Hello %s,\n\nGood news: your application for %s has been approved. Your lease and payment schedule are now available in the portal.\n\nBest regards,\nThe Rental Portal Team", name, propertyTitle)
	}
	return fmt.Sprintf("Your application for %s was not accepted", propertyTitle),
		fmt.Sprintf("Hello %s,\n\nUnfortunately your application for %s was not accepted.\n\nBest regards,\nThe Rental Portal Team", name, propertyTitle)
}

func overdueMessage(name, propertyTitle string, dueDate time.Time, amount decimal.Decimal) (string, string) {
	return fmt.Sprintf("Rent payment for %s is overdue", propertyTitle),
		fmt.Sprintf("Hello %s,\n\nYour rent payment of %s for %s was due on %s and is now overdue. A late fee has been added.\n\nBest regards,\nThe Rental Portal Team",
			name, amount.StringFixed(2), propertyTitle, utils.FormatDate(dueDate))
}
