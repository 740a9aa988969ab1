package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/playgrid/relay-service/internal/domain"
)

// PlayerRepository is the client for the external player store: one JSON
// record per session id plus an index set for listing.
type PlayerRepository struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) *PlayerRepository {
	return &PlayerRepository{client: client}
}

// Add provisions a record with the default position.
func (r *PlayerRepository) Add(ctx context.Context, id string) error {
	data, err := json.Marshal(domain.Player{ID: id})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, playerKey(id), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	data, err := r.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}

	var p domain.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) GetAll(ctx context.Context) ([]domain.Player, error) {
	ids, err := r.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]domain.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // record removed between SMEMBERS and MGET
		}
		var p domain.Player
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			continue
		}
		players = append(players, p)
	}

	return players, nil
}

func (r *PlayerRepository) Update(ctx context.Context, id string, x, y float64) error {
	data, err := json.Marshal(domain.Player{ID: id, X: x, Y: y})
	if err != nil {
		return err
	}

	return r.client.Set(ctx, playerKey(id), data, 0).Err()
}

func (r *PlayerRepository) Remove(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playersIndexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}
