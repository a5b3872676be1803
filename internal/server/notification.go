package server

import (
	"net/http"
	"strconv"
	"strings"

	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      List Notifications
// @Description  List the tenant's notification history
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        charge_id  query  string  false  "Charge ID"
// @Param        client_id  query  string  false  "Client ID"
// @Param        type       query  string  false  "Type"
// @Param        limit      query  int     false  "Limit"
// @Success      200  {object}  notificationdomain.ListNotificationResponse
// @Router       /notifications [get]
func (s *Server) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	req := notificationdomain.ListNotificationRequest{UserID: userID}

	chargeID, err := parseOptionalID(c.Query("charge_id"))
	if err != nil {
		AbortWithError(c, newValidationError("charge_id", "invalid_charge_id", "invalid charge_id"))
		return
	}
	req.ChargeID = chargeID

	clientID, err := parseOptionalID(c.Query("client_id"))
	if err != nil {
		AbortWithError(c, newValidationError("client_id", "invalid_client_id", "invalid client_id"))
		return
	}
	req.ClientID = clientID

	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		notifType := notificationdomain.Type(strings.ToLower(raw))
		switch notifType {
		case notificationdomain.TypeReminder, notificationdomain.TypeOverdue, notificationdomain.TypePaymentConfirmed:
			req.Type = &notifType
		default:
			AbortWithError(c, newValidationError("type", "invalid_type", "invalid type"))
			return
		}
	}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		req.Limit = limit
	}

	resp, err := s.notificationSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
