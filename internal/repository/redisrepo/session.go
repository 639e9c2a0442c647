package redisrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/session"
	"github.com/redis/go-redis/v9"
)

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// sessionRepo keeps tokens and user under one key so a save is never half applied.
type sessionRepo struct {
	rdb *redis.Client
	key string
}

func newSessionRepo(rdb *redis.Client, profile string) session.Store {
	return &sessionRepo{
		rdb: rdb,
		key: SessionKey(profile),
	}
}

func (r *sessionRepo) Load(ctx context.Context) (*session.Stored, error) {
	return r.load(ctx, r.rdb)
}

func (r *sessionRepo) load(ctx context.Context, c getter) (*session.Stored, error) {
	value, err := c.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNoSession
		}
		return nil, err
	}

	var stored session.Stored
	if err := json.Unmarshal(value, &stored); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *sessionRepo) SaveSession(ctx context.Context, tokens model.Tokens, user *model.User) error {
	valueJSON, err := json.Marshal(session.Stored{Tokens: tokens, User: user})
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, r.key, valueJSON, 0).Err()
}

func (r *sessionRepo) SetAccess(ctx context.Context, access string, refresh string) error {
	return r.update(ctx, true, func(stored *session.Stored) {
		stored.Tokens.Access = access
		if refresh != "" {
			stored.Tokens.Refresh = refresh
		}
	})
}

func (r *sessionRepo) SetUser(ctx context.Context, user *model.User) error {
	return r.update(ctx, false, func(stored *session.Stored) {
		stored.User = user
	})
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

// update is a read-modify-write guarded by WATCH so a concurrent Clear is not undone.
func (r *sessionRepo) update(ctx context.Context, createMissing bool, fn func(*session.Stored)) error {
	return r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := r.load(ctx, tx)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) || !createMissing {
				return err
			}
			stored = &session.Stored{}
		}

		fn(stored)

		valueJSON, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, valueJSON, 0)
			return nil
		})
		return err
	}, r.key)
}
