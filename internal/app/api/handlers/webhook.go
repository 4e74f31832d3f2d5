package handlers

import (
	"net/http"

	wh "github.com/YuvisTechPoint/FoundrVerse-sub000/internal/app/service/webhook"
	cfgpkg "github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/config"
	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/logctx"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the gateway HMAC of the raw request body.
const SignatureHeader = "X-Razorpay-Signature"

// WebhookAck is the acknowledgment body. Error is populated for operator
// visibility when processing failed internally; the HTTP status is still 200
// so the gateway does not redeliver (redelivery cannot fix an internal bug
// and only storms the endpoint).
type WebhookAck struct {
	Received bool   `json:"received"`
	Error    string `json:"error,omitempty"`
}

// @Summary      Razorpay Webhook
// @Description  Ingests gateway payment events. The body must be the raw signed payload.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.WebhookAck
// @Failure      400  {object}  handlers.WebhookAck
// @Failure      401  {object}  handlers.WebhookAck
// @Router       /webhooks/razorpay [post]
func ApiRazorpayWebhook(p *wh.Processor, cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, p.Logger)

		// Verification runs over the exact bytes on the wire, before any parsing.
		raw, err := c.GetRawData()
		if err != nil {
			log.Errorw("webhook_body_read_error", "error", err.Error())
			c.JSON(http.StatusBadRequest, WebhookAck{Error: "unreadable body"})
			return
		}

		if cfg.Razorpay.WebhookSecret == "" {
			log.Errorw("webhook_secret_missing")
			c.JSON(http.StatusInternalServerError, WebhookAck{Error: "webhook secret not configured"})
			return
		}

		sig := c.GetHeader(SignatureHeader)
		if sig == "" {
			log.Warnw("webhook_signature_missing")
			c.JSON(http.StatusBadRequest, WebhookAck{Error: "missing signature header"})
			return
		}
		if !wh.VerifySignature(raw, sig, cfg.Razorpay.WebhookSecret) {
			log.Warnw("webhook_signature_invalid")
			c.JSON(http.StatusUnauthorized, WebhookAck{Error: "invalid signature"})
			return
		}

		traceID := c.GetString("traceID")
		res := p.Process(c.Request.Context(), raw, traceID)

		ack := WebhookAck{Received: true}
		if res.Err != nil {
			ack.Error = res.Err.Error()
		}
		c.JSON(http.StatusOK, ack)
	}
}

// ApiRazorpayWebhookPing is a liveness echo for integration checks. It is
// only registered outside prod.
func ApiRazorpayWebhookPing() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "webhook endpoint alive"})
	}
}

func RegisterWebhookRoutes(r gin.IRouter, p *wh.Processor, cfg *cfgpkg.Config) {
	r.POST("/razorpay", ApiRazorpayWebhook(p, cfg))
	if !cfg.IsProd() {
		r.GET("/razorpay", ApiRazorpayWebhookPing())
	}
}
