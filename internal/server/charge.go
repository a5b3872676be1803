package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/export"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type recurrenceRequest struct {
	Interval string `json:"interval"`
}

type createChargeRequest struct {
	ClientID    string             `json:"client_id"`
	Amount      decimal.Decimal    `json:"amount"`
	DueDate     string             `json:"due_date"`
	Notes       string             `json:"notes"`
	PaymentLink string             `json:"payment_link"`
	Recurrence  *recurrenceRequest `json:"recurrence"`
}

type editChargeRequest struct {
	Amount          *decimal.Decimal   `json:"amount"`
	DueDate         *string            `json:"due_date"`
	Notes           *string            `json:"notes"`
	Recurrence      *recurrenceRequest `json:"recurrence"`
	ClearRecurrence bool               `json:"clear_recurrence"`
}

type confirmPaymentRequest struct {
	PaidAt        *time.Time `json:"paid_at"`
	TransactionID string     `json:"transaction_id"`
}

func parseDueDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}

func parseRecurrenceSpec(req *recurrenceRequest) (*chargedomain.RecurrenceSpec, error) {
	if req == nil {
		return nil, nil
	}
	interval, err := recurrence.ParseInterval(req.Interval)
	if err != nil {
		return nil, err
	}
	return &chargedomain.RecurrenceSpec{Interval: interval}, nil
}

// @Summary      Create Charge
// @Description  Create a one-off or recurring charge
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        request body createChargeRequest true "Create Charge Request"
// @Success      200  {object}  chargedomain.Charge
// @Router       /charges [post]
func (s *Server) CreateCharge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		AbortWithError(c, clientdomain.ErrInvalidID)
		return
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidDueDate)
		return
	}

	spec, err := parseRecurrenceSpec(req.Recurrence)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.chargeSvc.Create(c.Request.Context(), chargedomain.CreateChargeRequest{
		UserID:      userID,
		ClientID:    clientID,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Notes:       strings.TrimSpace(req.Notes),
		PaymentLink: strings.TrimSpace(req.PaymentLink),
		Recurrence:  spec,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &userID, "user", nil, "charge.create", "charge", &targetID, map[string]any{
			"client_id": resp.ClientID.String(),
			"amount":    resp.Amount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Charges
// @Description  List the tenant's charges
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        client_id         query  string  false  "Client ID"
// @Param        status            query  string  false  "Status"
// @Param        include_canceled  query  bool    false  "Include Canceled"
// @Param        due_from          query  string  false  "Due From"
// @Param        due_to            query  string  false  "Due To"
// @Success      200  {object}  chargedomain.ListChargesResponse
// @Router       /charges [get]
func (s *Server) ListCharges(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	req, err := parseListChargesRequest(c, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.chargeSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseListChargesRequest(c *gin.Context, userID snowflake.ID) (chargedomain.ListChargesRequest, error) {
	req := chargedomain.ListChargesRequest{UserID: userID}

	clientID, err := parseOptionalID(c.Query("client_id"))
	if err != nil {
		return req, newValidationError("client_id", "invalid_client_id", "invalid client_id")
	}
	req.ClientID = clientID

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := chargedomain.ChargeStatus(strings.ToLower(raw))
		switch status {
		case chargedomain.ChargeStatusPending, chargedomain.ChargeStatusPaid, chargedomain.ChargeStatusOverdue:
			req.Status = &status
		default:
			return req, newValidationError("status", "invalid_status", "invalid status")
		}
	}

	if raw := strings.TrimSpace(c.Query("include_canceled")); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return req, newValidationError("include_canceled", "invalid_flag", "invalid include_canceled")
		}
		req.IncludeCanceled = include
	}

	dueFrom, err := parseOptionalTime(c.Query("due_from"), false)
	if err != nil {
		return req, newValidationError("due_from", "invalid_due_from", "invalid due_from")
	}
	req.DueFrom = dueFrom

	dueTo, err := parseOptionalTime(c.Query("due_to"), true)
	if err != nil {
		return req, newValidationError("due_to", "invalid_due_to", "invalid due_to")
	}
	req.DueTo = dueTo

	return req, nil
}

// @Summary      Get Charge
// @Description  Get charge by ID
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Charge ID"
// @Success      200  {object}  chargedomain.Charge
// @Router       /charges/{id} [get]
func (s *Server) GetChargeByID(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidChargeID)
		return
	}

	resp, err := s.chargeSvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Edit Charge
// @Description  Edit amount, due date, notes or recurrence of a pending charge
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id      path  string             true  "Charge ID"
// @Param        request body  editChargeRequest  true  "Edit Charge Request"
// @Success      200  {object}  chargedomain.Charge
// @Router       /charges/{id} [patch]
func (s *Server) EditCharge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidChargeID)
		return
	}

	var req editChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			AbortWithError(c, chargedomain.ErrInvalidDueDate)
			return
		}
		dueDate = &parsed
	}

	spec, err := parseRecurrenceSpec(req.Recurrence)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.chargeSvc.Edit(c.Request.Context(), chargedomain.EditChargeRequest{
		UserID:          userID,
		ID:              id,
		Amount:          req.Amount,
		DueDate:         dueDate,
		Notes:           req.Notes,
		Recurrence:      spec,
		ClearRecurrence: req.ClearRecurrence,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Cancel Charge
// @Description  Cancel a pending or overdue charge
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Charge ID"
// @Success      200  {object}  chargedomain.Charge
// @Router       /charges/{id}/cancel [post]
func (s *Server) CancelCharge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidChargeID)
		return
	}

	resp, err := s.chargeSvc.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := id.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &userID, "user", nil, "charge.cancel", "charge", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Charge
// @Description  Hard delete a charge that no notification references
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Charge ID"
// @Success      200  {object}  map[string]string
// @Router       /charges/{id} [delete]
func (s *Server) DeleteCharge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidChargeID)
		return
	}

	if err := s.chargeSvc.Delete(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := id.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &userID, "user", nil, "charge.delete", "charge", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Confirm Payment
// @Description  Mark a charge as paid; spawns the next occurrence for recurring charges
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        id      path  string                 true   "Charge ID"
// @Param        request body  confirmPaymentRequest  false  "Confirm Payment Request"
// @Success      200  {object}  chargedomain.PaymentResult
// @Router       /charges/{id}/confirm-payment [post]
func (s *Server) ConfirmChargePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, chargedomain.ErrInvalidChargeID)
		return
	}

	var req confirmPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	// The manual confirmation path is tenant-scoped even though
	// ConfirmPayment itself is not: verify ownership first.
	if _, err := s.chargeSvc.GetByID(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.chargeSvc.ConfirmPayment(c.Request.Context(), chargedomain.ConfirmPaymentRequest{
		ChargeID:      id,
		PaidAt:        req.PaidAt,
		TransactionID: strings.TrimSpace(req.TransactionID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := id.String()
		metadata := map[string]any{}
		if resp.Successor != nil {
			metadata["successor_charge_id"] = resp.Successor.ID.String()
		}
		_ = s.auditSvc.AuditLog(c.Request.Context(), &userID, "user", nil, "charge.confirm_payment", "charge", &targetID, metadata)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Charge History
// @Description  Full charge history including canceled charges; format=csv downloads a CSV
// @Tags         charges
// @Accept       json
// @Produce      json
// @Param        client_id  query  string  false  "Client ID"
// @Param        due_from   query  string  false  "Due From"
// @Param        due_to     query  string  false  "Due To"
// @Param        format     query  string  false  "Format (csv)"
// @Success      200  {object}  chargedomain.ListChargesResponse
// @Router       /charges/history [get]
func (s *Server) ChargeHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	req, err := parseListChargesRequest(c, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	req.IncludeCanceled = true

	resp, err := s.chargeSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") != "csv" {
		c.JSON(http.StatusOK, gin.H{"data": resp})
		return
	}

	clients, err := s.clientSvc.List(c.Request.Context(), clientdomain.ListClientRequest{UserID: userID})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	lookup := make(map[snowflake.ID]clientdomain.Client, len(clients.Clients))
	for _, entry := range clients.Clients {
		lookup[entry.ID] = entry.Client
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="charges.csv"`)
	rows := export.BuildHistoryRows(resp.Charges, lookup)
	if err := export.WriteHistoryCSV(c.Writer, rows); err != nil {
		s.log.Error("csv export failed")
	}
}
