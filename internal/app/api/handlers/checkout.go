package handlers

import (
	"net/http"

	paymentsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/payment"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/internal/models"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/datatypes"
)

// CheckoutRequest records the gateway order the web tier just created, so a
// payment record exists before the first webhook arrives.
type CheckoutRequest struct {
	OrderID  string         `json:"order_id" binding:"required"`
	Amount   int64          `json:"amount" binding:"required"`
	Currency string         `json:"currency" binding:"required"`
	UserID   string         `json:"user_id"`
	Email    string         `json:"email"`
	Notes    map[string]any `json:"notes"`
}

// @Summary      Record Checkout Order
// @Description  Eagerly creates a payment record in status created for a new gateway order.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body handlers.CheckoutRequest true "Checkout order"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/payment/checkout [post]
func ApiRecordCheckout(svc *paymentsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		// Idempotent for a repeated submit of the same order.
		if existing, err := svc.GetByOrderID(c.Request.Context(), req.OrderID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		} else if existing != nil {
			c.JSON(http.StatusOK, response.OKT(existing))
			return
		}

		created, err := svc.Create(c.Request.Context(), &models.Payment{
			OrderID:   req.OrderID,
			Amount:    req.Amount,
			Currency:  req.Currency,
			UserID:    lo.EmptyableToPtr(req.UserID),
			UserEmail: lo.EmptyableToPtr(req.Email),
			Notes:     datatypes.JSONMap(req.Notes),
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(created))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, svc *paymentsvc.Service) {
	r.POST("/checkout", ApiRecordCheckout(svc))
}
