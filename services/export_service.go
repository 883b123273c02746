// services/export_service.go
package services

import (
	"bytes"
	"encoding/csv"
	"time"

	"nexus-events/models"
)

// AttendeesCSV flattens attendee records into comma-separated text for
// browser download: name, email, status, checked-in flag, registration
// date, check-in time.
func AttendeesCSV(attendees []models.Attendee) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Name", "Email", "Status", "Checked In", "Registered At", "Checked In At"}); err != nil {
		return "", err
	}

	for _, a := range attendees {
		checkedIn := "no"
		checkedInAt := ""
		if a.CheckedIn {
			checkedIn = "yes"
		}
		if a.CheckedInAt != nil {
			checkedInAt = a.CheckedInAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			a.Name,
			a.Email,
			string(a.Status),
			checkedIn,
			a.CreatedAt.UTC().Format(time.RFC3339),
			checkedInAt,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
