package handlers

import (
	"net/http"
	"time"

	paymentsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/payment"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/statistics"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/response"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ListPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// PaymentItem is the admin listing row.
type PaymentItem struct {
	ID            string              `json:"id"`
	OrderID       string              `json:"order_id"`
	PaymentID     *string             `json:"payment_id"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency"`
	Status        types.PaymentStatus `json:"status"`
	UserID        *string             `json:"user_id"`
	UserEmail     *string             `json:"user_email"`
	Method        *string             `json:"method"`
	RefundCount   int                 `json:"refund_count"`
	RefundedTotal int64               `json:"refunded_total"`
	PaidAt        *time.Time          `json:"paid_at"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toPaymentItem(m *models.Payment) *PaymentItem {
	return &PaymentItem{
		ID:            m.ID,
		OrderID:       m.OrderID,
		PaymentID:     m.PaymentID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Status:        m.Status,
		UserID:        m.UserID,
		UserEmail:     m.UserEmail,
		Method:        m.Method,
		RefundCount:   len(m.Refunds),
		RefundedTotal: m.ProcessedRefundTotal(),
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type ListPaymentsResponse struct {
	Items []*PaymentItem `json:"items"`
	Total int64          `json:"total"`
}

// @Summary      List Payments (Admin)
// @Description  Retrieves a paginated and filterable list of payment records.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.ListPaymentsRequest true "List payments request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/list_payments [post]
func ApiListPayments(svc *paymentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &paymentsvc.ScanPaymentsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := svc.ScanPayments(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.Payment, _ int) *PaymentItem { return toPaymentItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListPaymentsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Get Payment Statistics (Admin)
// @Description  Retrieves daily payment statistics.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.PaymentStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespPaymentStatistic
// @Router       /api/v1/admin/get_payment_statistic [post]
func ApiGetPaymentStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.PaymentStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetPaymentStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminPaymentRoutes(r gin.IRouter, svc *paymentsvc.Service, stats *statistics.Service) {
	r.POST("/list_payments", ApiListPayments(svc))
	r.POST("/get_payment_statistic", ApiGetPaymentStatistic(stats))
}
