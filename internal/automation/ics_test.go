package automation

import (
	"strings"
	"testing"
	"time"
)

func TestBuildInvite_Structure(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	invite := string(buildInvite(start, 30*time.Minute, "Discovery Call", "Intro call", "Maria", "maria@example.com"))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"DTSTART:20260314T150000Z",
		"DTEND:20260314T153000Z",
		"SUMMARY:Discovery Call",
		"ATTENDEE;CN=Maria;RSVP=TRUE:mailto:maria@example.com",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(invite, want) {
			t.Fatalf("invite missing %q:\n%s", want, invite)
		}
	}

	if !strings.Contains(invite, "\r\n") {
		t.Fatal("invite lines must be CRLF terminated")
	}
}

func TestBuildInvite_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	start := time.Date(2026, 3, 14, 16, 0, 0, 0, loc)

	invite := string(buildInvite(start, 30*time.Minute, "Call", "", "", ""))
	if !strings.Contains(invite, "DTSTART:20260314T150000Z") {
		t.Fatalf("expected UTC DTSTART, got:\n%s", invite)
	}
}

func TestBuildInvite_EscapesSpecialCharacters(t *testing.T) {
	start := time.Now()
	invite := string(buildInvite(start, time.Hour, "Call; planning, part 1", "", "", ""))

	if !strings.Contains(invite, `SUMMARY:Call\; planning\, part 1`) {
		t.Fatalf("special characters must be escaped:\n%s", invite)
	}
}
