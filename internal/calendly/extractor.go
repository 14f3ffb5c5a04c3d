// Package calendly ingests scheduling webhook events and resolves them back
// to lead records.
package calendly

import (
	"regexp"
	"sort"
	"strings"
)

// trackingLinkPattern matches a lead ID smuggled through a booking URL's
// query or fragment, e.g. "...?leadId=abc" or "...#leadId=abc".
var trackingLinkPattern = regexp.MustCompile(`(?i)[?&#]lead_?id=([^&#\s]+)`)

// FindLeadID searches an arbitrarily shaped webhook payload for a lead ID.
// The walk is exhaustive and deterministic: maps are visited in sorted key
// order, so the same payload always yields the same answer. Two passes run
// in priority order: an explicit "leadId"-like key beats an ID embedded in
// a tracking URL anywhere in the document.
func FindLeadID(payload any) (string, bool) {
	var found string

	byKey := walk(payload, func(key, value string) bool {
		if strings.Contains(normalizeKey(key), "leadid") && strings.TrimSpace(value) != "" {
			found = strings.TrimSpace(value)
			return true
		}
		return false
	})
	if byKey {
		return found, true
	}

	byURL := walk(payload, func(_, value string) bool {
		if m := trackingLinkPattern.FindStringSubmatch(value); m != nil {
			found = m[1]
			return true
		}
		return false
	})
	return found, byURL
}

// FindEmail searches the payload for an invitee email address, again in
// deterministic sorted-key order.
func FindEmail(payload any) (string, bool) {
	var found string

	ok := walk(payload, func(key, value string) bool {
		norm := normalizeKey(key)
		if (norm == "email" || norm == "emailaddress" || norm == "inviteeemail") && strings.Contains(value, "@") {
			found = strings.TrimSpace(value)
			return true
		}
		return false
	})
	return found, ok
}

// walk runs a depth-first traversal over the decoded JSON value, invoking
// visit for every string leaf with its owning key ("" for array elements and
// the root). Traversal stops at the first visit returning true.
func walk(node any, visit func(key, value string) bool) bool {
	return walkKeyed("", node, visit)
}

func walkKeyed(key string, node any, visit func(key, value string) bool) bool {
	switch v := node.(type) {
	case string:
		return visit(key, v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if walkKeyed(k, v[k], visit) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if walkKeyed("", item, visit) {
				return true
			}
		}
	}
	return false
}

// normalizeKey lowers a JSON key and strips separators so "lead_id",
// "lead-id", "Lead ID" and "leadId" all compare equal.
func normalizeKey(key string) string {
	lowered := strings.ToLower(key)
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, lowered)
}
