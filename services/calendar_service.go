// services/calendar_service.go
package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CalendarEvent is the slice of an event that calendar exports need.
type CalendarEvent struct {
	Title       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
}

// icsTimestamp renders a time in the RFC5545 UTC form YYYYMMDDTHHMMSSZ.
func icsTimestamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// GenerateGoogleCalendarURL builds the calendar.google.com deep link that
// pre-fills an "add event" form.
func GenerateGoogleCalendarURL(event CalendarEvent) string {
	u, _ := url.Parse("https://calendar.google.com/calendar/render")
	q := u.Query()
	q.Set("action", "TEMPLATE")
	q.Set("text", event.Title)
	q.Set("details", event.Description)
	q.Set("location", event.Location)
	q.Set("dates", fmt.Sprintf("%s/%s", icsTimestamp(event.StartTime), icsTimestamp(event.EndTime)))
	u.RawQuery = q.Encode()
	return u.String()
}

// GenerateOutlookCalendarURL builds the outlook.live.com compose deep link.
func GenerateOutlookCalendarURL(event CalendarEvent) string {
	u, _ := url.Parse("https://outlook.live.com/calendar/0/deeplink/compose")
	q := u.Query()
	q.Set("subject", event.Title)
	q.Set("body", event.Description)
	q.Set("location", event.Location)
	q.Set("startdt", event.StartTime.UTC().Format(time.RFC3339))
	q.Set("enddt", event.EndTime.UTC().Format(time.RFC3339))
	q.Set("path", "/calendar/action/compose")
	q.Set("rru", "addevent")
	u.RawQuery = q.Encode()
	return u.String()
}

// GenerateIcsFileContent renders a minimal single-VEVENT RFC5545 payload
// for client-side download. DTSTART/DTEND/SUMMARY survive a round trip
// exactly.
func GenerateIcsFileContent(event CalendarEvent) string {
	start := icsTimestamp(event.StartTime)
	end := icsTimestamp(event.EndTime)
	now := icsTimestamp(time.Now())

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//GDG Nexus//NONSGML Event//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s-%s@nexus.event", now, start),
		fmt.Sprintf("DTSTAMP:%s", now),
		fmt.Sprintf("DTSTART:%s", start),
		fmt.Sprintf("DTEND:%s", end),
		fmt.Sprintf("SUMMARY:%s", event.Title),
		fmt.Sprintf("DESCRIPTION:%s", strings.ReplaceAll(event.Description, "\n", "\\n")),
		fmt.Sprintf("LOCATION:%s", event.Location),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n")
}
