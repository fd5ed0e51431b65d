package store

import "fmt"

// Key patterns (prefix defaults to "chat"):
// {prefix}:room:{room_id}                STRING<json ChatRoom>   - room metadata, 24h TTL
// {prefix}:room:{room_id}:messages       LIST<json ChatMessage>  - newest first, capped, 24h TTL
// {prefix}:room:{room_id}:participants   SET<wallet>             - everyone who sent or joined, 24h TTL
// {prefix}:room:{room_id}:online         SET<wallet> | ZSET<wallet, last_seen_ms> - presence, 5m TTL
//
// Pub/sub channel {prefix}:room:{room_id}:messages shares the log key's name.

// Keys builds store keys for one key prefix.
type Keys struct {
	prefix string
}

// NewKeys returns a key builder. An empty prefix means "chat".
func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = "chat"
	}
	return Keys{prefix: prefix}
}

// Prefix returns the key prefix.
func (k Keys) Prefix() string {
	return k.prefix
}

func (k Keys) Room(roomID string) string {
	return fmt.Sprintf("%s:room:%s", k.prefix, roomID)
}

func (k Keys) Messages(roomID string) string {
	return fmt.Sprintf("%s:room:%s:messages", k.prefix, roomID)
}

func (k Keys) Participants(roomID string) string {
	return fmt.Sprintf("%s:room:%s:participants", k.prefix, roomID)
}

func (k Keys) Online(roomID string) string {
	return fmt.Sprintf("%s:room:%s:online", k.prefix, roomID)
}
