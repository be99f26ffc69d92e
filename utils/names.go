package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
)

// FoldName reduces a display name to an accent- and case-insensitive key,
// so "Éclipse" and "eclipse" sort together.
func FoldName(name string) string {
	return cases.Fold().String(unidecode.Unidecode(strings.TrimSpace(name)))
}

// Slugify makes a URL/object-key safe slug ("Ticket to Ride: Europe" -> "ticket-to-ride-europe").
func Slugify(name string) string {
	s := slug.Make(name)
	if s == "" {
		return "untitled"
	}
	return s
}
