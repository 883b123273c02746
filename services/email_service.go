// Package services file: services/email_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/resend/resend-go/v2"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// ErrTicketIDRequired is the precondition failure for an accepted-status
// email without a ticket identifier.
var ErrTicketIDRequired = errors.New("ticket id required for accepted status")

// ErrPendingResend is returned when a resend is requested for an attendee
// still awaiting approval.
var ErrPendingResend = errors.New("cannot resend email for pending status")

// MailClient is the thin slice of the Resend API the service needs; tests
// substitute a fake.
type MailClient interface {
	Send(params *resend.SendEmailRequest) (string, error)
}

// resendMail is the production MailClient backed by the Resend API.
type resendMail struct {
	client *resend.Client
}

func (m *resendMail) Send(params *resend.SendEmailRequest) (string, error) {
	sent, err := m.client.Emails.Send(params)
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// NewResendClient builds the production mail client from RESEND_API_KEY.
func NewResendClient() MailClient {
	return &resendMail{client: resend.NewClient(os.Getenv("RESEND_API_KEY"))}
}

// BatchResult reports the outcome of one batch run. Failed items keep
// email_sent=false, so re-running the batch retries exactly those.
type BatchResult struct {
	Processed  int `json:"processed"`
	SentCount  int `json:"sentCount"`
	ErrorCount int `json:"errorCount"`
}

// EmailService composes and sends transactional email for attendees.
// Outbound throughput is shaped by a token-bucket limiter rather than
// sleeps in the workflow, so pacing is tunable without touching the batch
// logic.
type EmailService struct {
	db      *gorm.DB
	mail    MailClient
	limiter *rate.Limiter
	from    string
}

// NewEmailService wires an EmailService. The default limiter allows two
// messages per second, matching the external provider's rate limit.
func NewEmailService(db *gorm.DB, mail MailClient) *EmailService {
	from := os.Getenv("RESEND_FROM_EMAIL")
	if from == "" {
		from = "onboarding@resend.dev"
	}
	return &EmailService{
		db:      db,
		mail:    mail,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		from:    from,
	}
}

// SetLimiter overrides the outbound limiter; tests use an unlimited one.
func (s *EmailService) SetLimiter(l *rate.Limiter) {
	s.limiter = l
}

// ------------------- single-message composition -------------------

// SendTicketEmail sends the "you're in" email with the QR code image and
// the PDF ticket attached. The attendee id doubles as the ticket id; its
// absence is a precondition failure, not a send failure.
func (s *EmailService) SendTicketEmail(attendee *models.Attendee, event *models.Event) error {
	if attendee.ID == "" {
		return ErrTicketIDRequired
	}

	pdfBytes, err := BuildTicketPDF(attendee, event)
	if err != nil {
		return err
	}

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Hi %s!</h1>
<p>You are confirmed for <strong>%s</strong>.</p>
<p><strong>Date:</strong> %s<br/><strong>Location:</strong> %s</p>
<p>Booking ID: %s<br/>Booked on: %s<br/>Ticket type: Regular Admission</p>
<p>Your ticket with QR code is attached. Show it at the entrance, or open your
<a href="%s/tickets/%s">ticket page</a>.</p>
<p>%s</p>
</div>`,
		attendee.Name, event.Name,
		event.Date.Format("Monday, January 2, 2006 3:04 PM"), event.Location,
		attendee.ID, bookingDate(attendee.CreatedAt),
		ApplicationURL(), attendee.ID,
		organizerName,
	)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{attendee.Email},
		Subject: fmt.Sprintf("Your Registration Confirmation for %s", event.Name),
		Html:    html,
		Attachments: []*resend.Attachment{
			{
				Filename: TicketFilename(attendee.ID),
				Content:  pdfBytes,
			},
		},
	}

	if _, err := s.mail.Send(params); err != nil {
		logger.Error.Printf("[SendTicketEmail] send to %s failed: %v", attendee.Email, err)
		return err
	}
	return nil
}

// SendRejectionEmail sends the plain "update regarding" message.
func (s *EmailService) SendRejectionEmail(attendee *models.Attendee, event *models.Event) error {
	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Hi %s,</h1>
<p>Thank you for your interest in <strong>%s</strong>. Unfortunately we are
unable to confirm your registration this time.</p>
<p>%s</p>
</div>`, attendee.Name, event.Name, organizerName)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{attendee.Email},
		Subject: fmt.Sprintf("Update regarding %s", event.Name),
		Html:    html,
	}

	if _, err := s.mail.Send(params); err != nil {
		logger.Error.Printf("[SendRejectionEmail] send to %s failed: %v", attendee.Email, err)
		return err
	}
	return nil
}

// SendCertificateEmail sends the participation certificate message to a
// checked-in attendee.
func (s *EmailService) SendCertificateEmail(attendee *models.Attendee, event *models.Event) error {
	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Congratulations %s!</h1>
<p>Thank you for attending <strong>%s</strong>. This email confirms your
participation.</p>
<p>%s</p>
</div>`, attendee.Name, event.Name, organizerName)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{attendee.Email},
		Subject: fmt.Sprintf("Certificate of Participation: %s", event.Name),
		Html:    html,
	}

	if _, err := s.mail.Send(params); err != nil {
		logger.Error.Printf("[SendCertificateEmail] send to %s failed: %v", attendee.Email, err)
		return err
	}
	return nil
}

// ------------------- batch workflows -------------------

// SendBatchTickets emails every confirmed attendee of the event whose
// ticket has not gone out yet. Per-attendee failures are isolated: they
// are counted, the attendee keeps email_sent=false, and the next batch run
// retries them. That manual re-invocation is the only retry mechanism.
func (s *EmailService) SendBatchTickets(ctx context.Context, eventID string) (BatchResult, error) {
	var result BatchResult

	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrEventNotFound
		}
		return result, err
	}

	var attendees []models.Attendee
	err := s.db.
		Where("event_id = ? AND status = ? AND email_sent = ?", eventID, models.StatusConfirmed, false).
		Find(&attendees).Error
	if err != nil {
		return result, err
	}

	result.Processed = len(attendees)
	if len(attendees) == 0 {
		logger.Info.Printf("[SendBatchTickets] event %s: no pending emails", eventID)
		return result, nil
	}

	for i := range attendees {
		attendee := &attendees[i]

		if err := s.limiter.Wait(ctx); err != nil {
			// Caller gave up; everything not yet sent stays retryable.
			return result, err
		}

		if err := s.SendTicketEmail(attendee, &event); err != nil {
			result.ErrorCount++
			continue
		}

		if err := s.db.Model(&models.Attendee{}).Where("id = ?", attendee.ID).Update("email_sent", true).Error; err != nil {
			logger.Error.Printf("[SendBatchTickets] flag update for %s failed: %v", attendee.ID, err)
			result.ErrorCount++
			continue
		}
		result.SentCount++
	}

	logger.Info.Printf("[SendBatchTickets] event %s: sent=%d errors=%d", eventID, result.SentCount, result.ErrorCount)
	return result, nil
}

// SendBatchCertificates emails every checked-in attendee of the event. The
// email_sent flag belongs to the ticket flow and stays untouched here.
func (s *EmailService) SendBatchCertificates(ctx context.Context, eventID string) (BatchResult, error) {
	var result BatchResult

	var event models.Event
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, ErrEventNotFound
		}
		return result, err
	}

	var attendees []models.Attendee
	if err := s.db.Where("event_id = ? AND checked_in = ?", eventID, true).Find(&attendees).Error; err != nil {
		return result, err
	}

	result.Processed = len(attendees)
	for i := range attendees {
		attendee := &attendees[i]

		if err := s.limiter.Wait(ctx); err != nil {
			return result, err
		}

		if err := s.SendCertificateEmail(attendee, &event); err != nil {
			result.ErrorCount++
			continue
		}
		result.SentCount++
	}

	logger.Info.Printf("[SendBatchCertificates] event %s: sent=%d errors=%d", eventID, result.SentCount, result.ErrorCount)
	return result, nil
}

// ResendAttendee dispatches the status-appropriate email for one attendee,
// regardless of the email_sent flag. Pending attendees have nothing to
// resend.
func (s *EmailService) ResendAttendee(attendeeID string) error {
	var attendee models.Attendee
	if err := s.db.Preload("Event").First(&attendee, "id = ?", attendeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttendeeNotFound
		}
		return err
	}
	if attendee.Event == nil {
		return ErrEventNotFound
	}

	switch attendee.Status {
	case models.StatusConfirmed:
		if err := s.SendTicketEmail(&attendee, attendee.Event); err != nil {
			return err
		}
		if err := s.db.Model(&models.Attendee{}).Where("id = ?", attendee.ID).Update("email_sent", true).Error; err != nil {
			logger.Error.Printf("[ResendAttendee] flag update for %s failed: %v", attendee.ID, err)
		}
		return nil
	case models.StatusRejected:
		return s.SendRejectionEmail(&attendee, attendee.Event)
	default:
		return ErrPendingResend
	}
}
