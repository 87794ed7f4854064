package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/domain/cadence"
	vo "github.com/beneficlub/backoffice/internal/domain/cadence/valueobjects"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/mappers"
	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/biztime"
	"github.com/beneficlub/backoffice/internal/shared/constants"
	"github.com/beneficlub/backoffice/internal/shared/db"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type CadenceMessageRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCadenceMessageRepository(db *gorm.DB, logger logger.Interface) cadence.Repository {
	return &CadenceMessageRepositoryImpl{db: db, logger: logger}
}

func (r *CadenceMessageRepositoryImpl) CreateBatch(ctx context.Context, msgs []*cadence.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	list := make([]*models.CadenceMessageModel, len(msgs))
	for i, m := range msgs {
		list[i] = mappers.CadenceMessageToModel(m)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(&list).Error; err != nil {
		r.logger.Errorw("failed to create cadence messages",
			"run_id", list[0].RunID,
			"count", len(list),
			"error", err,
		)
		return fmt.Errorf("failed to create cadence messages: %w", err)
	}

	for i, m := range msgs {
		m.SetID(list[i].ID)
	}
	return nil
}

func (r *CadenceMessageRepositoryImpl) Update(ctx context.Context, m *cadence.Message) error {
	model := mappers.CadenceMessageToModel(m)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.CadenceMessageModel{}).
		Where("id = ? AND status = ?", model.ID, vo.MessageStatusPending.String()).
		Updates(map[string]any{
			"status":              model.Status,
			"send_at":             model.SendAt,
			"attempts":            model.Attempts,
			"last_error":          model.LastError,
			"provider_message_id": model.ProviderMessageID,
			"completed_at":        model.CompletedAt,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update cadence message", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update cadence message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return cadence.ErrMessageSuperseded
	}
	return nil
}

func (r *CadenceMessageRepositoryImpl) GetByID(ctx context.Context, id uint) (*cadence.Message, error) {
	var model models.CadenceMessageModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cadence message: %w", err)
	}
	return mappers.CadenceMessageToDomain(&model), nil
}

func (r *CadenceMessageRepositoryImpl) HasPendingRun(ctx context.Context, subscriberID uint, name vo.CadenceName) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.CadenceMessageModel{}).
		Where("subscriber_id = ? AND cadence = ? AND status = ?",
			subscriberID, name.String(), vo.MessageStatusPending.String()).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check pending cadence: %w", err)
	}
	return count > 0, nil
}

// ListDue only returns a step once every earlier step of its run is terminal.
func (r *CadenceMessageRepositoryImpl) ListDue(ctx context.Context, now time.Time, limit int) ([]*cadence.Message, error) {
	pending := vo.MessageStatusPending.String()
	blocked := fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM %[1]s prev WHERE prev.run_id = %[1]s.run_id AND prev.step_index < %[1]s.step_index AND prev.status = ?)",
		constants.TableCadenceMessages,
	)

	var list []*models.CadenceMessageModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND send_at <= ?", pending, now).
		Where(blocked, pending).
		Order("send_at ASC").Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list due cadence messages", "error", err)
		return nil, fmt.Errorf("failed to list due cadence messages: %w", err)
	}
	return mappers.CadenceMessagesToDomain(list), nil
}

func (r *CadenceMessageRepositoryImpl) NextInRun(ctx context.Context, runID string, stepIndex int) (*cadence.Message, error) {
	var model models.CadenceMessageModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("run_id = ? AND step_index > ? AND status = ?", runID, stepIndex, vo.MessageStatusPending.String()).
		Order("step_index ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next cadence step: %w", err)
	}
	return mappers.CadenceMessageToDomain(&model), nil
}

func (r *CadenceMessageRepositoryImpl) CancelPending(ctx context.Context, subscriberID uint, names []vo.CadenceName, reason string) (int64, error) {
	now := biztime.NowUTC()
	query := db.GetTxFromContext(ctx, r.db).Model(&models.CadenceMessageModel{}).
		Where("subscriber_id = ? AND status = ?", subscriberID, vo.MessageStatusPending.String())
	if len(names) > 0 {
		cadences := make([]string, len(names))
		for i, n := range names {
			cadences[i] = n.String()
		}
		query = query.Where("cadence IN ?", cadences)
	}

	result := query.Updates(map[string]any{
		"status":       vo.MessageStatusCancelled.String(),
		"last_error":   reason,
		"completed_at": now,
		"updated_at":   now,
	})
	if result.Error != nil {
		r.logger.Errorw("failed to cancel pending cadence messages", "subscriber_id", subscriberID, "error", result.Error)
		return 0, fmt.Errorf("failed to cancel cadence messages: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *CadenceMessageRepositoryImpl) ListBySubscriber(ctx context.Context, subscriberID uint, page, pageSize int) ([]*cadence.Message, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.CadenceMessageModel{}).
		Where("subscriber_id = ?", subscriberID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count cadence messages: %w", err)
	}

	var list []*models.CadenceMessageModel
	if err := query.Scopes(db.Paginate(page, pageSize)).
		Order("created_at DESC").Order("run_id ASC").Order("step_index ASC").
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list cadence messages: %w", err)
	}
	return mappers.CadenceMessagesToDomain(list), total, nil
}
