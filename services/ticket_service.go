// services/ticket_service.go
package services

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"nexus-events/models"
)

// Organizer name printed on tickets and used as the email sender name.
const organizerName = "GDG Nexus"

// ApplicationURL returns the externally visible base URL for links baked
// into QR codes and emails.
func ApplicationURL() string {
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}
	return applicationURL
}

// CheckInURL is the payload encoded in a ticket QR code. Scanning it lands
// a helper on the check-in page for this attendee.
func CheckInURL(attendeeID string) string {
	return fmt.Sprintf("%s/admin/check-in/%s", ApplicationURL(), attendeeID)
}

// GenerateTicketQR creates a QR code PNG whose payload is the check-in URL
// for the given attendee.
func GenerateTicketQR(attendeeID string, size int) ([]byte, error) {
	png, err := qrcode.Encode(CheckInURL(attendeeID), qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}

// BuildTicketPDF renders the single-page PDF ticket: event block, attendee
// block, booking id and the embedded QR code.
func BuildTicketPDF(attendee *models.Attendee, event *models.Event) ([]byte, error) {
	qrPNG, err := GenerateTicketQR(attendee.ID, 300)
	if err != nil {
		return nil, fmt.Errorf("qr generation failed: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Ticket - %s", event.Name), false)
	pdf.AddPage()

	// event block
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 12, event.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, event.Date.Format("Monday, January 2, 2006 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, event.Location, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Organised by %s", organizerName), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// attendee block
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Attendee", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, attendee.Name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, attendee.Email, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking ID: %s", attendee.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Booked on: %s", attendee.CreatedAt.Format("January 2, 2006")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Ticket type: Regular Admission", "", 1, "L", false, 0, "")
	pdf.Ln(8)

	// QR code, centred
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
	pageWidth, _ := pdf.GetPageSize()
	const qrSide = 70.0
	pdf.ImageOptions("ticket-qr", (pageWidth-qrSide)/2, pdf.GetY(), qrSide, qrSide, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + qrSide + 4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Scan this at the entrance", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// TicketFilename derives the download filename from the first 8 characters
// of the attendee id.
func TicketFilename(attendeeID string) string {
	short := attendeeID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ticket-%s.pdf", short)
}

// bookingDate formats the human-readable booking date used in emails.
func bookingDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
