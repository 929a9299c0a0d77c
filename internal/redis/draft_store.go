package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"flightline/internal/billing"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// ErrDraftNotFound indicates no cached draft exists for the booking.
var ErrDraftNotFound = errors.New("draft not found")

// NewClient returns a configured go-redis client and validates the connection with PING.
func NewClient(addr, password string, db int) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// DraftStore caches check-in drafts per booking. Drafts are ephemeral by
// design: losing one costs a recalculation, never money.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore returns redis-backed store.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

func (s *DraftStore) key(bookingID int64) string {
	return fmt.Sprintf("checkin:draft:%d", bookingID)
}

// Save caches the draft.
func (s *DraftStore) Save(ctx context.Context, bookingID int64, draft *billing.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(bookingID), data, s.ttl).Err()
}

// Get returns the cached draft.
func (s *DraftStore) Get(ctx context.Context, bookingID int64) (*billing.Draft, error) {
	result, err := s.client.Get(ctx, s.key(bookingID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var draft billing.Draft
	if err := json.Unmarshal([]byte(result), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Delete removes the cached draft.
func (s *DraftStore) Delete(ctx context.Context, bookingID int64) error {
	return s.client.Del(ctx, s.key(bookingID)).Err()
}
