package domain

import "time"

// Room groups sessions into a single match, addressed by a short code.
// Members keeps join order; the first entry is the room's creator.
type Room struct {
	Code      string
	Members   []string
	CreatedAt time.Time
}
