package shortener

import "time"

// Code represents a short URL code.
type Code string

// OwnerID identifies the principal that created a link. Empty means anonymous.
type OwnerID string

// ShortLink maps a short code to the long URL it was allocated for.
// A ShortLink is never mutated once stored.
type ShortLink struct {
	Code      Code
	LongURL   string
	OwnerID   OwnerID
	CreatedAt time.Time
}

// Anonymous reports whether the link was created without an owner.
func (l *ShortLink) Anonymous() bool {
	return l.OwnerID == ""
}
