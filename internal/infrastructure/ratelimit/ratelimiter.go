package ratelimit

import (
	"context"
	"time"
)

// Policy bounds how many hits a key may take inside each window. Zero
// limits are ignored.
type Policy struct {
	PerMinute int
	PerHour   int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

func (p Policy) windows() []window {
	return []window{
		{time.Minute, p.PerMinute},
		{time.Hour, p.PerHour},
	}
}

type window struct {
	duration time.Duration
	limit    int
}
