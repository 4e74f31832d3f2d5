package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the webhook idempotency ledger. A delivery whose event id is
// already marked processed must be acknowledged without reprocessing.
//
// Two deliveries racing through the IsProcessed check before either commits
// can both process; MarkProcessed is an upsert so the race never errors.
// Exactly-once is best effort, not a guarantee.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// IsProcessed reports whether eventID has already been fully handled.
func (s *Service) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, fmt.Errorf("empty event id")
	}
	var row models.WebhookEvent
	err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load webhook event: %w", err)
	}
	return row.Processed, nil
}

// MarkProcessed records eventID as handled. Safe to call more than once.
func (s *Service) MarkProcessed(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("empty event id")
	}
	row := &models.WebhookEvent{
		ID:          eventID,
		Processed:   true,
		ProcessedAt: lo.ToPtr(time.Now()),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"processed", "processed_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to mark webhook event processed: %w", err)
	}
	return nil
}
