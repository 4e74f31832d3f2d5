package handlers

import (
	"net/http"

	entsvc "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/entitlement"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/response"

	"github.com/gin-gonic/gin"
)

type entitlementResp struct {
	Entitled bool `json:"entitled"`
}

// @Summary      Dashboard Entitlement
// @Description  Returns whether the authenticated account has a paid-like payment record.
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespEntitlement
// @Router       /api/v1/dashboard/entitlement [get]
func ApiGetEntitlement(svc *entsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		email := c.GetString("email")

		entitled, err := svc.HasEntitlement(c.Request.Context(), userID, email)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entitlementResp{Entitled: entitled}))
	}
}

func RegisterDashboardRoutes(r gin.IRouter, svc *entsvc.Service) {
	r.GET("/entitlement", ApiGetEntitlement(svc))
}
