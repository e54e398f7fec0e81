package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func postLifecycle(t *testing.T, h echo.HandlerFunc, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestAdminCancelReleasesDates(t *testing.T) {
	engine, store := newTestEngine()
	admin := &AdminHandler{Engine: engine}
	guest := &ReservationHandler{Engine: engine}

	body := `{"guest_name":"To Cancel","guest_email":"c@example.com","room_id":1,"plan_id":1,"check_in":"2026-09-10","check_out":"2026-09-12"}`
	rec, _ := postJSON(t, guest.CreateReservation, "/v1/reservations", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed booking failed: %d", rec.Code)
	}

	rec = postLifecycle(t, admin.CancelReservation, "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	res, err := store.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if res.Status != model.StatusCanceled {
		t.Errorf("status = %q, want CANCELED", res.Status)
	}

	// The canceled stay no longer blocks the room.
	body = `{"guest_name":"New Guest","guest_email":"n@example.com","room_id":1,"plan_id":1,"check_in":"2026-09-10","check_out":"2026-09-12"}`
	rec, _ = postJSON(t, guest.CreateReservation, "/v1/reservations", body)
	if rec.Code != http.StatusCreated {
		t.Errorf("rebooking after cancel status = %d, want 201", rec.Code)
	}
}

func TestAdminCompleteRequiresConfirmed(t *testing.T) {
	engine, _ := newTestEngine()
	admin := &AdminHandler{Engine: engine}
	id := seedReservation(t, engine)

	// Still PENDING: completing is not allowed.
	rec := postLifecycle(t, admin.CompleteReservation, "1")
	if rec.Code != http.StatusConflict {
		t.Fatalf("complete pending status = %d, want 409", rec.Code)
	}

	if err := engine.MarkPaid(context.Background(), id, "pay_1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	rec = postLifecycle(t, admin.CompleteReservation, "1")
	if rec.Code != http.StatusOK {
		t.Errorf("complete confirmed status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}

func TestAdminLifecycleUnknownReservation(t *testing.T) {
	engine, _ := newTestEngine()
	admin := &AdminHandler{Engine: engine}

	if rec := postLifecycle(t, admin.CancelReservation, "424242"); rec.Code != http.StatusNotFound {
		t.Errorf("cancel unknown status = %d, want 404", rec.Code)
	}
	if rec := postLifecycle(t, admin.CompleteReservation, "abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("complete bad id status = %d, want 400", rec.Code)
	}
}
