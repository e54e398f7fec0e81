package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

const testWebhookSecret = "whsec_test"

func signBody(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, h *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/payment/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("X-Webhook-Signature", signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.HandlePayment(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func seedReservation(t *testing.T, engine *booking.Engine) uint64 {
	t.Helper()
	day := 24 * time.Hour
	base := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	conf, err := engine.CreateReservation(context.Background(), booking.CreateRequest{
		GuestName:  "Webhook Guest",
		GuestEmail: "guest@example.com",
		RoomID:     1,
		PlanID:     1,
		CheckIn:    base,
		CheckOut:   base.Add(2 * day),
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	return conf.ID
}

func TestWebhookPaymentSucceeded(t *testing.T) {
	engine, store := newTestEngine()
	h := &WebhookHandler{Engine: engine, Secret: testWebhookSecret}
	id := seedReservation(t, engine)

	body := fmt.Sprintf(`{"event":"payment.succeeded","reservation_id":%d,"payment_ref":"pay_123"}`, id)
	rec := postWebhook(t, h, body, signBody(testWebhookSecret, body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	res, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if res.Status != model.StatusConfirmed {
		t.Errorf("status = %q, want CONFIRMED", res.Status)
	}
	if res.PaymentRef == nil || *res.PaymentRef != "pay_123" {
		t.Errorf("payment_ref = %v, want pay_123", res.PaymentRef)
	}

	// Providers retry deliveries; a duplicate must not error.
	rec = postWebhook(t, h, body, signBody(testWebhookSecret, body))
	if rec.Code != http.StatusOK {
		t.Errorf("duplicate delivery status = %d, want 200", rec.Code)
	}
}

func TestWebhookPaymentFailed(t *testing.T) {
	engine, store := newTestEngine()
	h := &WebhookHandler{Engine: engine, Secret: testWebhookSecret}
	id := seedReservation(t, engine)

	body := fmt.Sprintf(`{"event":"payment.failed","reservation_id":%d}`, id)
	rec := postWebhook(t, h, body, signBody(testWebhookSecret, body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	res, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if res.Status != model.StatusFailed {
		t.Errorf("status = %q, want FAILED", res.Status)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	engine, _ := newTestEngine()
	h := &WebhookHandler{Engine: engine, Secret: testWebhookSecret}
	id := seedReservation(t, engine)

	body := fmt.Sprintf(`{"event":"payment.succeeded","reservation_id":%d}`, id)

	cases := []struct {
		name string
		sig  string
	}{
		{"missing", ""},
		{"not hex", "zzzz"},
		{"wrong secret", signBody("other-secret", body)},
		{"signature of different body", signBody(testWebhookSecret, body+" ")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postWebhook(t, h, body, tc.sig)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestWebhookBadPayload(t *testing.T) {
	engine, _ := newTestEngine()
	h := &WebhookHandler{Engine: engine, Secret: testWebhookSecret}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown event", `{"event":"payment.refunded","reservation_id":1}`, http.StatusBadRequest},
		{"missing reservation id", `{"event":"payment.succeeded"}`, http.StatusBadRequest},
		{"not json", `not json`, http.StatusBadRequest},
		{"unknown reservation", `{"event":"payment.succeeded","reservation_id":424242}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postWebhook(t, h, tc.body, signBody(testWebhookSecret, tc.body))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestWebhookRejectsCanceledReservation(t *testing.T) {
	engine, _ := newTestEngine()
	h := &WebhookHandler{Engine: engine, Secret: testWebhookSecret}
	id := seedReservation(t, engine)

	if err := engine.Cancel(context.Background(), id); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	body := fmt.Sprintf(`{"event":"payment.succeeded","reservation_id":%d}`, id)
	rec := postWebhook(t, h, body, signBody(testWebhookSecret, body))
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}
}
