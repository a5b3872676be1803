// Package sender hands rendered messages to the outbound WhatsApp sink.
// Delivery is fire-and-forget: the sweep records the notification first
// and never fails a run because the sink was down.
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gabaoo/ping-pague-auto/internal/observability/tracing"
	"go.uber.org/zap"
)

// Message is one outbound WhatsApp payload.
type Message struct {
	Phone   string `json:"phone"`
	Content string `json:"content"`
}

type Sender interface {
	Send(ctx context.Context, msg Message)
}

// LogSender writes messages to the log. Used when no gateway is
// configured (development, tests).
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("notification.sender")}
}

func (s *LogSender) Send(_ context.Context, msg Message) {
	s.log.Info("whatsapp message (log only)",
		zap.String("phone", maskPhone(msg.Phone)),
		zap.Int("content_length", len(msg.Content)),
	)
}

// GatewaySender posts messages to an HTTP WhatsApp gateway. Errors are
// logged and dropped.
type GatewaySender struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewGatewaySender(url string, log *zap.Logger) *GatewaySender {
	return &GatewaySender{
		url:    strings.TrimSpace(url),
		client: tracing.WrapHTTPClient(&http.Client{Timeout: 10 * time.Second}),
		log:    log.Named("notification.sender"),
	}
}

func (s *GatewaySender) Send(ctx context.Context, msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		s.log.Warn("marshaling message", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.log.Warn("building gateway request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("gateway unreachable", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.log.Warn("gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("phone", maskPhone(msg.Phone)),
		)
	}
}

func maskPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}
