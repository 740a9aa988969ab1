package http

type StatusResponse struct {
	Sessions int `json:"sessions"`
	Rooms    int `json:"rooms"`
}
