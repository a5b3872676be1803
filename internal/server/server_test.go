package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gabaoo/ping-pague-auto/internal/clock"
	"github.com/gabaoo/ping-pague-auto/internal/config"
	paymentdomain "github.com/gabaoo/ping-pague-auto/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakePaymentService struct {
	resp paymentdomain.WebhookResponse
	err  error
}

func (f *fakePaymentService) ProcessWebhook(context.Context, paymentdomain.WebhookRequest) (paymentdomain.WebhookResponse, error) {
	if f.err != nil {
		return paymentdomain.WebhookResponse{}, f.err
	}
	return f.resp, nil
}

func newTestServer(t *testing.T, cfg config.Config, payments paymentdomain.Service) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewServer(Params{
		Config:     cfg,
		Log:        zap.NewNop(),
		PaymentSvc: payments,
		Clock:      clock.SystemClock{},
	})
}

func TestRequireUserRejectsMissingHeader(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &fakePaymentService{})
	router := srv.Router()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestRequireUserRejectsMalformedHeader(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &fakePaymentService{})
	router := srv.Router()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/v1/clients", nil)
	request.Header.Set("X-User-ID", "not-a-snowflake")
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestWebhookTokenGuard(t *testing.T) {
	cfg := config.Config{}
	cfg.Webhook.Token = "secret"
	srv := newTestServer(t, cfg, &fakePaymentService{
		resp: paymentdomain.WebhookResponse{Success: true, ChargeID: "123", Status: "paid"},
	})
	router := srv.Router()

	body := `{"charge_id":"123","status":"approved"}`

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(body))
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	request = httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(body))
	request.Header.Set("X-Webhook-Token", "secret")
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", recorder.Code)
	}
}

func TestWebhookAcknowledgesIgnoredEvents(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &fakePaymentService{err: paymentdomain.ErrEventIgnored})
	router := srv.Router()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment",
		strings.NewReader(`{"charge_id":"123","status":"refused"}`))
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), `"success":false`) {
		t.Fatalf("body = %s, want success:false", recorder.Body.String())
	}
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	srv := newTestServer(t, config.Config{}, &fakePaymentService{err: paymentdomain.ErrMissingChargeID})
	router := srv.Router()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/v1/webhooks/payment", strings.NewReader(`{}`))
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}
