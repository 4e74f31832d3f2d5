package statistics

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func items(ids ...StatisticType) []*PaymentStatisticDataItem {
	out := make([]*PaymentStatisticDataItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, &PaymentStatisticDataItem{ID: id})
	}
	return out
}

func TestCollectStatistics_AllItemsPresent(t *testing.T) {
	res, err := collectStatistics(items(StatisticTypeDailyPaymentCount, StatisticTypeDailyGrossVolume),
		func(di *PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
			return []PaymentStatisticResponseDataItem{{Date: "2026-08-28", Value: 1}}, nil
		})

	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Contains(t, res, StatisticTypeDailyPaymentCount)
	require.Contains(t, res, StatisticTypeDailyGrossVolume)
}

func TestCollectStatistics_ErrorSurfaces(t *testing.T) {
	_, err := collectStatistics(items(StatisticTypeDailyPaymentCount, StatisticTypeDailyRefundVolume),
		func(di *PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
			if di.ID == StatisticTypeDailyRefundVolume {
				return nil, fmt.Errorf("query failed")
			}
			return []PaymentStatisticResponseDataItem{{Value: 7}}, nil
		})

	require.Error(t, err)
}

func TestCollectStatistics_NoItems(t *testing.T) {
	res, err := collectStatistics(nil, func(*PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
		t.Fatal("run must not be called")
		return nil, nil
	})

	require.NoError(t, err)
	require.Empty(t, res)
}

func TestGetPaymentStatistic_InvalidDataItem(t *testing.T) {
	svc := New(nil)
	_, err := svc.GetPaymentStatistic(context.Background(), &PaymentStatisticRequest{
		DataItems: items(StatisticType("bogus")),
	})

	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid data item id")
}
