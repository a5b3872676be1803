package server

import (
	"errors"
	"net/http"

	paymentdomain "github.com/gabaoo/ping-pague-auto/internal/payment/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Payment Webhook
// @Description  Apply a payment-provider event to the matching charge
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        request body paymentdomain.WebhookRequest true "Webhook Payload"
// @Success      200  {object}  paymentdomain.WebhookResponse
// @Router       /webhooks/payment [post]
func (s *Server) PaymentWebhook(c *gin.Context) {
	var req paymentdomain.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.ProcessWebhook(c.Request.Context(), req)
	if err != nil {
		// Ignored statuses are acknowledged so the provider stops
		// retrying an event we will never act on.
		if errors.Is(err, paymentdomain.ErrEventIgnored) {
			c.JSON(http.StatusOK, paymentdomain.WebhookResponse{Success: false})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
