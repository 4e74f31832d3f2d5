package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticType string

const (
	// Daily counts and volumes over the payment table
	StatisticTypeDailyPaymentCount  StatisticType = "daily_payment_count"
	StatisticTypeDailyGrossVolume   StatisticType = "daily_gross_volume"
	StatisticTypeDailyRefundVolume  StatisticType = "daily_refund_volume"
	StatisticTypeTotalCapturedCount StatisticType = "total_captured_count"
)

type PaymentStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type PaymentStatisticRequest struct {
	Filters   []*types.CommonFilter       `json:"filters"`
	DataItems []*PaymentStatisticDataItem `json:"data_items"`
}

// Build composes a WHERE clause from the request filters.
func (f *PaymentStatisticRequest) Build(builder clause.Builder) {
	if f == nil || len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type PaymentStatisticResponseDataItem struct {
	Date  string `json:"date"`
	Label string `json:"label,omitempty"`
	Value int64  `json:"value"`
}

type PaymentStatisticResponse struct {
	DataItems map[StatisticType][]PaymentStatisticResponseDataItem `json:"data_items"`
}

// Service provides payment statistics for the admin dashboard.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyPaymentCount(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("payment").
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyGrossVolume(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("payment").
		Select("TO_CHAR(paid_at, 'YYYY-MM-DD') as date, currency AS label, sum(amount) as value").
		Where("paid_at IS NOT NULL").
		Where("status IN ?", []types.PaymentStatus{
			types.PaymentStatusCaptured, types.PaymentStatusPaid,
			types.PaymentStatusPartiallyRefunded, types.PaymentStatusRefunded,
		}).
		Where(clause.Where{Exprs: []clause.Expression{request}}).
		Group("TO_CHAR(paid_at, 'YYYY-MM-DD')").
		Group("currency").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyRefundVolume(ctx context.Context, _ *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
SELECT TO_CHAR(r.created_at, 'YYYY-MM-DD') as date, p.currency as label, SUM(r.amount) as value
FROM refund r
JOIN payment p ON p.id = r.payment_record_id
WHERE r.status = ?
GROUP BY TO_CHAR(r.created_at, 'YYYY-MM-DD'), p.currency
ORDER BY date DESC
`, types.RefundStatusProcessed).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalCapturedCount(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("payment").
		Select("count(*) as value").
		Where("status IN ?", []types.PaymentStatus{types.PaymentStatusCaptured, types.PaymentStatusPaid}).
		Where(clause.Where{Exprs: []clause.Expression{request}})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPaymentStatistic(ctx context.Context, request *PaymentStatisticRequest, dataItem *PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyPaymentCount:
		return s.getDailyPaymentCount(ctx, request)
	case StatisticTypeDailyGrossVolume:
		return s.getDailyGrossVolume(ctx, request)
	case StatisticTypeDailyRefundVolume:
		return s.getDailyRefundVolume(ctx, request)
	case StatisticTypeTotalCapturedCount:
		return s.getTotalCapturedCount(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

// GetPaymentStatistic fans each requested data item out concurrently and
// collects the results into a single response.
func (s *Service) GetPaymentStatistic(ctx context.Context, request *PaymentStatisticRequest) (*PaymentStatisticResponse, error) {
	results, err := collectStatistics(request.DataItems, func(di *PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
		return s.getPaymentStatistic(ctx, request, di)
	})
	if err != nil {
		return nil, err
	}
	return &PaymentStatisticResponse{DataItems: results}, nil
}

// collectStatistics runs one goroutine per data item and gathers every
// buffered result before checking for errors, so a failure in one item cannot
// drop another item's rows.
func collectStatistics(items []*PaymentStatisticDataItem, run func(*PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error)) (map[StatisticType][]PaymentStatisticResponseDataItem, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(items))
	resChan := make(chan *lo.Entry[StatisticType, []PaymentStatisticResponseDataItem], len(items))

	for _, item := range items {
		wg.Add(1)
		go func(di *PaymentStatisticDataItem) {
			defer wg.Done()
			res, err := run(di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []PaymentStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	wg.Wait()
	close(errChan)
	close(resChan)

	results := make(map[StatisticType][]PaymentStatisticResponseDataItem)
	for entry := range resChan {
		results[entry.Key] = entry.Value
	}
	if err := <-errChan; err != nil {
		return nil, err
	}
	return results, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
