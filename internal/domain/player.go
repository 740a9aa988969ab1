package domain

// Player is the externally stored per-session game state. The relay reads
// and writes it through the player store, it never caches positions.
type Player struct {
	ID string  `json:"uuid"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}
