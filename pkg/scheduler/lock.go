// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/canonical/lead-access-service/internal/logging"
)

const (
	DefaultLockKey = "lead-access:scheduler:cycle"
	defaultLockTTL = time.Minute
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the expiry only while the lock still carries our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

var _ LockerInterface = (*RedisLocker)(nil)

// RedisLocker is a SET NX PX lock shared by every instance. The holder
// extends it every third of its ttl until released.
type RedisLocker struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration

	logger logging.LoggerInterface
}

func (l *RedisLocker) Acquire(ctx context.Context) (func(context.Context), bool, error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}

	if !ok {
		return nil, false, nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(token, stop, done)

	var once sync.Once
	release := func(ctx context.Context) {
		once.Do(func() {
			close(stop)
			<-done
		})

		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			l.logger.Warnf("failed to release cycle lock, it expires in %s: %v", l.ttl, err)
		}
	}

	return release, true, nil
}

func (l *RedisLocker) keepAlive(token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	every := l.ttl / 3
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), every)
		extended, err := extendScript.Run(ctx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
		cancel()

		switch {
		case err != nil:
			l.logger.Warnf("failed to extend cycle lock: %v", err)
		case extended == 0:
			l.logger.Warnf("cycle lock %s expired while the cycle was running", l.key)
			return
		}
	}
}

func NewRedisLocker(client redis.Cmdable, key string, ttl time.Duration, logger logging.LoggerInterface) *RedisLocker {
	l := new(RedisLocker)

	l.client = client
	l.key = key
	l.ttl = ttl
	if l.ttl < 3*time.Millisecond {
		l.ttl = defaultLockTTL
	}

	l.logger = logger

	return l
}
