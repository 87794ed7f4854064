package cadence

import (
	"context"
	"time"

	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
)

type Repository interface {
	CreateBatch(ctx context.Context, msgs []*Message) error
	// Update only applies while the stored row is still pending and returns
	// ErrMessageSuperseded otherwise.
	Update(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uint) (*Message, error)
	HasPendingRun(ctx context.Context, subscriberID uint, name vo.CadenceName) (bool, error)
	// ListDue returns pending messages with send_at <= now whose earlier
	// steps in the same run are all terminal, oldest first.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*Message, error)
	// NextInRun returns the lowest pending step after stepIndex, or nil.
	NextInRun(ctx context.Context, runID string, stepIndex int) (*Message, error)
	// CancelPending cancels pending messages of the given cadences (all when
	// names is empty) and returns how many were cancelled.
	CancelPending(ctx context.Context, subscriberID uint, names []vo.CadenceName, reason string) (int64, error)
	ListBySubscriber(ctx context.Context, subscriberID uint, page, pageSize int) ([]*Message, int64, error)
}
