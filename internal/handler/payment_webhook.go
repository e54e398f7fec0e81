package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
)

// WebhookHandler receives payment results from the payment provider.
// Requests must carry an X-Webhook-Signature header: the hex-encoded
// HMAC-SHA256 of the raw request body under the shared secret.  The
// provider retries deliveries, so both event handlers are idempotent.
type WebhookHandler struct {
	Engine *booking.Engine
	Secret string
}

const (
	eventPaymentSucceeded = "payment.succeeded"
	eventPaymentFailed    = "payment.failed"
)

type webhookPayload struct {
	Event         string `json:"event"`
	ReservationID uint64 `json:"reservation_id"`
	PaymentRef    string `json:"payment_ref"`
}

// HandlePayment verifies the signature and applies the payment result:
// payment.succeeded confirms the reservation, payment.failed marks it
// failed and releases its dates.
func (h *WebhookHandler) HandlePayment(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	sig := strings.TrimSpace(c.Request().Header.Get("X-Webhook-Signature"))
	if !verifySignature(h.Secret, body, sig) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid signature"})
	}

	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil || p.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	ctx := c.Request().Context()
	switch p.Event {
	case eventPaymentSucceeded:
		if err := h.Engine.MarkPaid(ctx, p.ReservationID, p.PaymentRef); err != nil {
			return bookingError(c, err)
		}
	case eventPaymentFailed:
		if err := h.Engine.MarkFailed(ctx, p.ReservationID); err != nil {
			return bookingError(c, err)
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// verifySignature compares the provided hex HMAC-SHA256 against the one
// computed from the body.  Comparison is constant time.
func verifySignature(secret string, body []byte, sig string) bool {
	if secret == "" || sig == "" {
		return false
	}
	given, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}
