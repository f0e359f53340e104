package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/found3r/found3r-engine/pkg/apperrors"
)

// SweepState is the lifecycle of a full sweep.
type SweepState string

const (
	SweepRunning   SweepState = "running"
	SweepCompleted SweepState = "completed"
	SweepFailed    SweepState = "failed"
)

// SweepStatus is the pollable progress of a full sweep. Percent is 0-100.
type SweepStatus struct {
	State     SweepState `json:"state"`
	Phase     string     `json:"phase"`
	Message   string     `json:"message"`
	Percent   int        `json:"percent"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SweepStatusStore holds sweep progress for polling. Entries expire after a
// TTL; an expired or never-started sweep reads as ErrNotFound.
type SweepStatusStore interface {
	Set(ctx context.Context, projectID uuid.UUID, status SweepStatus) error
	Get(ctx context.Context, projectID uuid.UUID) (SweepStatus, error)
}

// redisSweepStatusStore keeps sweep progress in Redis so status survives
// process restarts and is visible across replicas.
type redisSweepStatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSweepStatusStore creates a Redis-backed sweep status store.
func NewRedisSweepStatusStore(client *redis.Client, ttl time.Duration) SweepStatusStore {
	return &redisSweepStatusStore{client: client, ttl: ttl}
}

func sweepStatusKey(projectID uuid.UUID) string {
	return "sweep:status:" + projectID.String()
}

func (s *redisSweepStatusStore) Set(ctx context.Context, projectID uuid.UUID, status SweepStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal sweep status: %w", err)
	}
	if err := s.client.Set(ctx, sweepStatusKey(projectID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store sweep status: %w", err)
	}
	return nil
}

func (s *redisSweepStatusStore) Get(ctx context.Context, projectID uuid.UUID) (SweepStatus, error) {
	payload, err := s.client.Get(ctx, sweepStatusKey(projectID)).Bytes()
	if err == redis.Nil {
		return SweepStatus{}, apperrors.ErrNotFound
	}
	if err != nil {
		return SweepStatus{}, fmt.Errorf("read sweep status: %w", err)
	}

	var status SweepStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return SweepStatus{}, fmt.Errorf("decode sweep status: %w", err)
	}
	return status, nil
}

// memorySweepStatusStore is the single-process fallback used when Redis is
// not configured. Expiry is checked lazily on read.
type memorySweepStatusStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[uuid.UUID]memorySweepEntry
	now     func() time.Time
}

type memorySweepEntry struct {
	status    SweepStatus
	expiresAt time.Time
}

// NewMemorySweepStatusStore creates an in-process sweep status store.
func NewMemorySweepStatusStore(ttl time.Duration) SweepStatusStore {
	return &memorySweepStatusStore{
		ttl:     ttl,
		entries: make(map[uuid.UUID]memorySweepEntry),
		now:     time.Now,
	}
}

func (s *memorySweepStatusStore) Set(ctx context.Context, projectID uuid.UUID, status SweepStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[projectID] = memorySweepEntry{
		status:    status,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *memorySweepStatusStore) Get(ctx context.Context, projectID uuid.UUID) (SweepStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[projectID]
	if !ok {
		return SweepStatus{}, apperrors.ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, projectID)
		return SweepStatus{}, apperrors.ErrNotFound
	}
	return entry.status, nil
}

var (
	_ SweepStatusStore = (*redisSweepStatusStore)(nil)
	_ SweepStatusStore = (*memorySweepStatusStore)(nil)
)
