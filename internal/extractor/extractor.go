// Package extractor pulls structured slot values (order ids, emails,
// product names) out of free-form text using strict patterns and catalog
// lookups, avoiding false positives over ordinary words.
package extractor

import (
	"regexp"
	"strings"

	"github.com/spec-kit/support-engine/internal/domain"
)

var (
	// Labeled ids win immediately: "#1001", "order: 1001", "ref AB-12".
	labeledOrderPattern = regexp.MustCompile(`(?i)(?:#|order\s*:?\s*|id\s*:?\s*|ref\s*:?\s*)([A-Za-z0-9-]{4,})`)
	orderTokenPattern   = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	emailPattern        = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
)

// Extract returns the subset of requiredSlots it confidently found in the
// text. Absent slots are omitted, never errors. Slots not requested are
// never computed. Pure function of its inputs and the catalog.
func Extract(text string, requiredSlots []string, refs *domain.ReferenceData) map[string]string {
	found := map[string]string{}
	for _, slot := range requiredSlots {
		switch slot {
		case domain.SlotOrderID:
			if id := OrderID(text); id != "" {
				found[slot] = id
			}
		case domain.SlotEmail:
			if email := Email(text); email != "" {
				found[slot] = email
			}
		case domain.SlotProductName:
			if refs == nil {
				continue
			}
			if name := Product(text, refs); name != "" {
				found[slot] = name
			}
		}
	}
	return found
}

// OrderID extracts an order identifier, or "" if none qualifies.
//
// Pass 1 matches explicitly labeled ids. Pass 2 scans whitespace tokens:
// after stripping edge punctuation a token qualifies when it is at least
// four characters, contains a digit, and uses only letters, digits, and
// hyphens. The digit requirement keeps ordinary words out.
func OrderID(text string) string {
	if m := labeledOrderPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	for _, token := range strings.Fields(text) {
		clean := strings.Trim(token, ".,?!")
		if len(clean) < 4 || !containsDigit(clean) {
			continue
		}
		if orderTokenPattern.MatchString(clean) {
			return clean
		}
	}
	return ""
}

// Email extracts the first email address, or "".
func Email(text string) string {
	return emailPattern.FindString(text)
}

// Product scans the product catalog's official names and aliases against
// the text (case-insensitive substring, space-padded for naive boundary
// protection). Alias hits normalize to the official name. First matching
// product wins; there is no fuzzy matching.
func Product(text string, refs *domain.ReferenceData) string {
	lower := strings.ToLower(text)
	padded := " " + lower + " "

	for i := range refs.Products {
		product := &refs.Products[i]
		official := strings.ToLower(product.ProductName)
		if strings.Contains(padded, " "+official+" ") || strings.Contains(lower, official) {
			return product.ProductName
		}
		for _, alias := range product.Aliases {
			if strings.Contains(padded, strings.ToLower(alias)) {
				return product.ProductName
			}
		}
	}
	return ""
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
