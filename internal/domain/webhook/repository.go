package webhook

import (
	"context"
	"time"

	"github.com/beneficlub/backoffice/internal/domain/shared"
	vo "github.com/beneficlub/backoffice/internal/domain/webhook/valueobjects"
)

type Repository interface {
	// Create returns ErrDuplicateEvent when (provider, eventID) already exists.
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	GetBySID(ctx context.Context, sid string) (*Event, error)
	GetByEventID(ctx context.Context, provider shared.Provider, eventID string) (*Event, error)
	List(ctx context.Context, filter ListFilter) ([]*Event, int64, error)
	// ListRetryable returns failed events due for another attempt.
	ListRetryable(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*Event, error)
	// ListExhaustedUnalerted returns failed events with no retry left and no alert sent.
	ListExhaustedUnalerted(ctx context.Context, maxAttempts, limit int) ([]*Event, error)
}

type ListFilter struct {
	Provider     *shared.Provider
	Status       *vo.EventStatus
	EventType    string
	SubscriberID *uint
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

// Locker guards an event against concurrent processing across instances.
type Locker interface {
	// Acquire returns false when another holder owns the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

func LockKey(provider shared.Provider, eventID string) string {
	return "webhook:lock:" + provider.String() + ":" + eventID
}
