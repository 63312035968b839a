// Package lock serializes concurrent capture attempts per reservation.
// The TTL doubles as the upper bound on how long a crashed worker can leave
// a reservation marked as capturing.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrAlreadyLocked = errors.New("capture already in progress for this reservation")

const captureLockTTL = 30 * time.Second

// releaseScript deletes the lock only if this holder still owns it, so a
// slow worker cannot release a lock a later worker re-acquired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type CaptureLock struct {
	client *redis.Client
}

func NewCaptureLock(client *redis.Client) *CaptureLock {
	return &CaptureLock{client: client}
}

// Acquire takes the per-reservation lock and returns a release function.
// A held lock means another capture call is mid-flight; callers surface
// that instead of waiting.
func (l *CaptureLock) Acquire(ctx context.Context, reservationID uuid.UUID) (func(), error) {
	key := "capture_lock:" + reservationID.String()
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, captureLockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyLocked
	}

	release := func() {
		// Best effort: the TTL reclaims the lock if the release is lost.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
