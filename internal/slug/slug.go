// Package slug derives URL-safe identifiers for events, artists and
// cities. All functions are pure and total over any input string.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "Zürich"
// slugs the same as "Zurich".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases, strips diacritics, turns whitespace runs into
// single hyphens, removes everything outside [a-z0-9-], collapses
// repeated hyphens and trims leading/trailing ones. Idempotent; empty
// input yields "".
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		}
	}
	return strings.Trim(b.String(), "-")
}

// ForEvent builds the canonical event slug
// "{artist}-{city}-{YYYY-MM-DD}" with the last 6 characters of the
// upstream id appended when an id is supplied. The date part is
// whatever precedes "T" in startDate. Suffixing disambiguates by
// construction, not by collision detection; two events sharing
// artist+city+date+id-suffix still collide, which is accepted.
func ForEvent(artistName, cityName, startDate, eventID string) string {
	datePart := startDate
	if i := strings.IndexByte(startDate, 'T'); i >= 0 {
		datePart = startDate[:i]
	}
	base := Slugify(artistName) + "-" + Slugify(cityName) + "-" + datePart
	if eventID == "" {
		return base
	}
	suffix := eventID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return base + "-" + suffix
}
