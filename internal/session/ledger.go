package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fusion-kit/auth-service/internal/domain"
)

const scanBatch = 100

// Ledger tracks which issued tokens are still live. An entry existing is the
// sole source of truth for a token being usable; a valid signature alone is
// not sufficient.
type Ledger interface {
	Put(ctx context.Context, tokenType domain.TokenType, tokenID, subjectID string, ttl time.Duration) error
	Get(ctx context.Context, tokenType domain.TokenType, tokenID string) (string, bool, error)
	Delete(ctx context.Context, tokenType domain.TokenType, tokenID string) error
	RevokeAllForSubject(ctx context.Context, subjectID string) error
}

type redisLedger struct {
	client redis.UniversalClient
}

// NewRedisLedger returns a Redis-backed ledger. Per-key atomicity is
// delegated to Redis; no in-process locking is used.
func NewRedisLedger(client redis.UniversalClient) Ledger {
	return &redisLedger{client: client}
}

func entryKey(tokenType domain.TokenType, tokenID string) string {
	return fmt.Sprintf("%s:%s", tokenType, tokenID)
}

// Put stores the mapping with automatic expiry. Last write wins on the same
// key.
func (l *redisLedger) Put(ctx context.Context, tokenType domain.TokenType, tokenID, subjectID string, ttl time.Duration) error {
	if err := l.client.Set(ctx, entryKey(tokenType, tokenID), subjectID, ttl).Err(); err != nil {
		return fmt.Errorf("ledger put: %w", err)
	}
	return nil
}

// Get returns the subject id for a live entry. Absent means the token is no
// longer valid, regardless of signature state.
func (l *redisLedger) Get(ctx context.Context, tokenType domain.TokenType, tokenID string) (string, bool, error) {
	subject, err := l.client.Get(ctx, entryKey(tokenType, tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ledger get: %w", err)
	}
	return subject, true, nil
}

// Delete revokes a single token.
func (l *redisLedger) Delete(ctx context.Context, tokenType domain.TokenType, tokenID string) error {
	if err := l.client.Del(ctx, entryKey(tokenType, tokenID)).Err(); err != nil {
		return fmt.Errorf("ledger delete: %w", err)
	}
	return nil
}

// RevokeAllForSubject removes every live entry belonging to the subject
// across both token namespaces. This is a linear scan over live entries;
// entries are short-lived and bounded by active-session count, so no
// secondary index is kept. A token issued for the same subject during the
// sweep may or may not survive it.
func (l *redisLedger) RevokeAllForSubject(ctx context.Context, subjectID string) error {
	for _, tokenType := range []domain.TokenType{domain.TokenTypeAccess, domain.TokenTypeRefresh} {
		iter := l.client.Scan(ctx, 0, string(tokenType)+":*", scanBatch).Iterator()
		for iter.Next(ctx) {
			key := iter.Val()
			subject, err := l.client.Get(ctx, key).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return fmt.Errorf("ledger scan get: %w", err)
			}
			if subject != subjectID {
				continue
			}
			if err := l.client.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("ledger scan delete: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("ledger scan: %w", err)
		}
	}
	return nil
}
