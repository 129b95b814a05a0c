package ticket

import (
	"fmt"
	"strings"
)

// MaxSlugLength bounds the slug portion of generated document filenames
const MaxSlugLength = 50

// Slugify turns a ticket title into a filesystem-safe slug: lowercased,
// non-alphanumeric runs collapsed to single hyphens, trimmed, and capped at
// MaxSlugLength characters.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	if slug == "" {
		return "ticket"
	}
	return slug
}

// DocumentFilename builds the markdown filename for a ticket document:
// {prefix}-{ticket number, 3 digits}-{epic number, 2 digits}-{slug}.md
// with epic number 00 for tickets outside any epic.
func DocumentFilename(prefix string, t *Ticket) string {
	return fmt.Sprintf("%s-%03d-%02d-%s.md", prefix, t.TicketNumber, t.EpicNumber, Slugify(t.Title))
}
