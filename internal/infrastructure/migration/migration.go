package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/beneficlub/backoffice/internal/infrastructure/persistence/models"
	"github.com/beneficlub/backoffice/internal/shared/logger"
)

type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose for mysql and AutoMigrate for everything else.
func NewManager(driver string) *Manager {
	var strategy Strategy
	switch driver {
	case "", "mysql":
		strategy = NewGooseStrategy("mysql")
	default:
		strategy = NewAutoMigrateStrategy(models.All()...)
	}
	return NewManagerWithStrategy(strategy)
}

func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.WithComponent("migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())
	if err := m.strategy.Migrate(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}
	return nil
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}
