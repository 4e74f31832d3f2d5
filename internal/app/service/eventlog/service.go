package eventlog

import (
	"context"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/logctx"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/tool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service persists the webhook audit trail. handle_failed rows double as the
// dead-letter record, since the webhook endpoint acknowledges deliveries even
// when processing failed.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a webhook event log row. Nil input is ignored.
func (s *Service) Save(ctx context.Context, row *models.WebhookEventLog) {
	go func() {
		if row == nil {
			return
		}
		if row.ID == "" {
			row.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Save(row).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save webhook event log: %v", err)
		}
	}()
}
