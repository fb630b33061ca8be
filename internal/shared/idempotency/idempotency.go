// Package idempotency records the progress of client-keyed units of work so
// a retried request can resume or replay instead of repeating side effects.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-kintai/internal/shared/apperror"
)

const (
	StatusPending = "pending"
	StatusDone    = "done"

	DefaultTTL     = 24 * time.Hour
	DefaultLockTTL = 30 * time.Second
)

var ErrInProgress = apperror.New(
	"PROCESSING",
	"A request with this Idempotency-Key is still being processed",
	http.StatusConflict,
)

var ErrKeyReused = apperror.New(
	apperror.CodeConflict,
	"This Idempotency-Key was already used for a different request",
	http.StatusConflict,
)

// Entry is what is stored per key. Scope binds the key to one target and
// Fingerprint to one request body, so a token reused for another resource
// or another payload is rejected.
type Entry struct {
	Status      string          `json:"status"`
	Scope       string          `json:"scope"`
	Fingerprint string          `json:"fingerprint,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
}

func (e Entry) Done() bool { return e.Status == StatusDone }

// Matches reports whether the entry was recorded for the same target and body.
func (e Entry) Matches(scope, fingerprint string) bool {
	return e.Scope == scope && e.Fingerprint == fingerprint
}

// Fingerprint is the hex SHA-256 of v's JSON encoding. Callers pass a
// normalized form so equivalent requests hash alike.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

//go:generate mockgen -source=idempotency.go -destination=mock/idempotency_mock.go -package=mock
type Store interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Save(ctx context.Context, key string, e Entry) error
	// Lock returns false when another holder owns key.
	Lock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// Decode unmarshals a recorded result.
func Decode[T any](e Entry) (T, error) {
	var v T
	if len(e.Result) == 0 {
		return v, errors.New("idempotency: entry has no result")
	}
	err := json.Unmarshal(e.Result, &v)
	return v, err
}

// Finish marks key as done with result.
func Finish(ctx context.Context, s Store, key, scope, fingerprint string, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.Save(ctx, key, Entry{Status: StatusDone, Scope: scope, Fingerprint: fingerprint, Result: data})
}
