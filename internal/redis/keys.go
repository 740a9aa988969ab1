package redis

import "fmt"

const keyPrefix = "relay"

// playerKey returns the key holding one player record.
func playerKey(id string) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the key of the SET indexing all live player ids.
func playersIndexKey() string {
	return fmt.Sprintf("%s:players", keyPrefix)
}
