package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/academix-api/internal/models"
	"github.com/noah-isme/academix-api/pkg/cache"
	appErrors "github.com/noah-isme/academix-api/pkg/errors"
)

// RegistrationRepository keeps pending sign-ups in Redis, one key per token with a TTL.
type RegistrationRepository struct {
	client *redis.Client
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(client *redis.Client) *RegistrationRepository {
	return &RegistrationRepository{client: client}
}

func registrationKey(token string) string {
	return cache.Key("registration", token)
}

// Save stores the pending registration until its ExpiresAt.
func (r *RegistrationRepository) Save(ctx context.Context, p *models.PendingRegistration) error {
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save registration: already expired")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	if err := r.client.Set(ctx, registrationKey(p.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

// Get loads a pending registration. Unknown or expired tokens return ErrCacheMiss.
func (r *RegistrationRepository) Get(ctx context.Context, token string) (*models.PendingRegistration, error) {
	raw, err := r.client.Get(ctx, registrationKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrCacheMiss
		}
		return nil, fmt.Errorf("load registration: %w", err)
	}
	var p models.PendingRegistration
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode registration: %w", err)
	}
	return &p, nil
}

// RecordFailedAttempt bumps the attempt counter, keeping the remaining TTL, and returns the
// updated record. The record is removed once no attempts remain.
func (r *RegistrationRepository) RecordFailedAttempt(ctx context.Context, token string) (*models.PendingRegistration, error) {
	key := registrationKey(token)
	var updated models.PendingRegistration

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return appErrors.ErrCacheMiss
			}
			return err
		}
		if err := json.Unmarshal(raw, &updated); err != nil {
			return err
		}
		updated.Attempts++
		payload, err := json.Marshal(&updated)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if updated.Exhausted() {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.SetArgs(ctx, key, payload, redis.SetArgs{KeepTTL: true})
			return nil
		})
		return err
	}

	for i := 0; i < 3; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, appErrors.ErrCacheMiss) {
				return nil, err
			}
			return nil, fmt.Errorf("record registration attempt: %w", err)
		}
		return &updated, nil
	}
	return nil, fmt.Errorf("record registration attempt: too much contention")
}

// Delete removes the pending registration and reports whether it existed.
func (r *RegistrationRepository) Delete(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Del(ctx, registrationKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("delete registration: %w", err)
	}
	return n > 0, nil
}
