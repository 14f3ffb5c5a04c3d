package automation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// icsTimeLayout is the UTC timestamp format required by RFC 5545.
const icsTimeLayout = "20060102T150405Z"

// buildInvite renders a single-event iCalendar invite. Timestamps are
// emitted in UTC regardless of the input location.
func buildInvite(start time.Time, duration time.Duration, summary, description, attendeeName, attendeeEmail string) []byte {
	startUTC := start.UTC()
	endUTC := startUTC.Add(duration)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//LeadFlow//Booking//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:REQUEST\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s\r\n", uuid.New().String())
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", time.Now().UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", startUTC.Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", endUTC.Format(icsTimeLayout))
	fmt.Fprintf(&b, "SUMMARY:%s\r\n", escapeICS(summary))
	if description != "" {
		fmt.Fprintf(&b, "DESCRIPTION:%s\r\n", escapeICS(description))
	}
	if attendeeEmail != "" {
		fmt.Fprintf(&b, "ATTENDEE;CN=%s;RSVP=TRUE:mailto:%s\r\n", escapeICS(attendeeName), attendeeEmail)
	}
	b.WriteString("STATUS:CONFIRMED\r\n")
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")

	return []byte(b.String())
}

func escapeICS(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(value)
}
