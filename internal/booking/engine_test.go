package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCatalog() *MemoryCatalog {
	return NewMemoryCatalog(
		[]*model.Room{
			{ID: 1, Name: "Standard Single", Capacity: 1, Price: 8000, IsActive: true},
			{ID: 2, Name: "Deluxe Twin", Capacity: 2, Price: 10000, IsActive: true},
		},
		[]*model.Plan{
			{ID: 1, Name: "Room Only", Price: 0, IsActive: true},
			{ID: 2, Name: "Breakfast Included", Price: 2000, IsActive: true},
		},
	)
}

func newTestEngine() (*Engine, *MemoryStore) {
	store := NewMemoryStore()
	return NewEngine(testCatalog(), store, nil), store
}

func mustCreate(t *testing.T, e *Engine, roomID uint64, in, out string) Confirmation {
	t.Helper()
	conf, err := e.CreateReservation(context.Background(), CreateRequest{
		GuestName:  "Taro Yamada",
		GuestEmail: "taro@example.com",
		RoomID:     roomID,
		PlanID:     1,
		CheckIn:    date(in),
		CheckOut:   date(out),
	})
	if err != nil {
		t.Fatalf("CreateReservation(%s, %s): %v", in, out, err)
	}
	return conf
}

func TestNights(t *testing.T) {
	cases := []struct {
		in, out string
		want    int
	}{
		{"2024-06-01", "2024-06-02", 1},
		{"2024-06-01", "2024-06-03", 2},
		{"2024-06-01", "2024-06-08", 7},
		{"2024-06-01", "2024-06-01", 1}, // same-day floor
	}
	for _, c := range cases {
		if got := Nights(date(c.in), date(c.out)); got != c.want {
			t.Errorf("Nights(%s, %s) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestComputePrice(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	// (10000 + 2000) * 2 nights
	q, err := e.ComputePrice(ctx, 2, 2, date("2024-06-01"), date("2024-06-03"))
	if err != nil {
		t.Fatalf("ComputePrice: %v", err)
	}
	if q.Total != 24000 || q.Nights != 2 {
		t.Errorf("got total=%d nights=%d, want total=24000 nights=2", q.Total, q.Nights)
	}

	// zero-surcharge plan
	q, err = e.ComputePrice(ctx, 1, 1, date("2024-06-01"), date("2024-06-02"))
	if err != nil {
		t.Fatalf("ComputePrice: %v", err)
	}
	if q.Total != 8000 {
		t.Errorf("got total=%d, want 8000", q.Total)
	}
}

func TestComputePriceErrors(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.ComputePrice(ctx, 99, 1, date("2024-06-01"), date("2024-06-02")); !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("unknown room: got %v, want ErrCatalogNotFound", err)
	}
	if _, err := e.ComputePrice(ctx, 1, 99, date("2024-06-01"), date("2024-06-02")); !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("unknown plan: got %v, want ErrCatalogNotFound", err)
	}
	if _, err := e.ComputePrice(ctx, 1, 1, date("2024-06-03"), date("2024-06-01")); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("reversed dates: got %v, want ErrInvalidDateRange", err)
	}
}

func TestCheckAvailability(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	mustCreate(t, e, 1, "2024-06-10", "2024-06-15")

	cases := []struct {
		name      string
		in, out   string
		available bool
	}{
		{"identical interval", "2024-06-10", "2024-06-15", false},
		{"contained inside", "2024-06-11", "2024-06-13", false},
		{"straddles start", "2024-06-08", "2024-06-11", false},
		{"straddles end", "2024-06-14", "2024-06-18", false},
		{"covers existing", "2024-06-08", "2024-06-18", false},
		{"before, disjoint", "2024-06-01", "2024-06-05", true},
		{"after, disjoint", "2024-06-20", "2024-06-25", true},
		{"touching at checkout", "2024-06-15", "2024-06-18", true}, // existing checkout == new check-in
		{"touching at checkin", "2024-06-08", "2024-06-10", true},  // new checkout == existing check-in
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			av, err := e.CheckAvailability(ctx, 1, date(c.in), date(c.out))
			if err != nil {
				t.Fatalf("CheckAvailability: %v", err)
			}
			if av.Available != c.available {
				t.Errorf("available = %v, want %v (conflicts %v)", av.Available, c.available, av.ConflictIDs)
			}
			if !av.Available && len(av.ConflictIDs) == 0 {
				t.Error("conflict reported without conflict ids")
			}
		})
	}
}

func TestCheckAvailabilityOtherRoom(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	mustCreate(t, e, 1, "2024-06-10", "2024-06-15")

	av, err := e.CheckAvailability(ctx, 2, date("2024-06-10"), date("2024-06-15"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !av.Available {
		t.Error("reservation on room 1 must not block room 2")
	}
}

func TestCheckAvailabilityErrors(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	if _, err := e.CheckAvailability(ctx, 1, date("2024-06-05"), date("2024-06-05")); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("equal dates: got %v, want ErrInvalidDateRange", err)
	}
	if _, err := e.CheckAvailability(ctx, 99, date("2024-06-01"), date("2024-06-02")); !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("unknown room: got %v, want ErrCatalogNotFound", err)
	}
}

func TestCreateReservation(t *testing.T) {
	e, store := newTestEngine()
	conf := mustCreate(t, e, 1, "2024-06-01", "2024-06-03")
	if conf.TotalPrice != 16000 {
		t.Errorf("total = %d, want 16000", conf.TotalPrice)
	}
	res, err := store.GetByID(context.Background(), conf.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if res.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", res.Status)
	}
}

func TestCreateReservationGuestValidation(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()

	cases := []struct {
		name, guest, email string
	}{
		{"empty name", "", "a@example.com"},
		{"blank name", "   ", "a@example.com"},
		{"empty email", "Taro", ""},
		{"no at sign", "Taro", "not-an-email"},
		{"missing local part", "Taro", "@example.com"},
		{"missing domain", "Taro", "taro@"},
		{"undotted domain", "Taro", "taro@localhost"},
		{"double at sign", "Taro", "taro@@example.com"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := e.CreateReservation(ctx, CreateRequest{
				GuestName:  c.guest,
				GuestEmail: c.email,
				RoomID:     1,
				PlanID:     1,
				CheckIn:    date("2024-06-01"),
				CheckOut:   date("2024-06-03"),
			})
			if !errors.Is(err, ErrInvalidGuestInfo) {
				t.Errorf("got %v, want ErrInvalidGuestInfo", err)
			}
		})
	}
	// invalid guest info must not write anything
	if ids, _ := store.FindOverlapping(ctx, 1, date("2024-06-01"), date("2024-06-03")); len(ids) != 0 {
		t.Errorf("store written despite invalid guest info: %v", ids)
	}
}

func TestCreateReservationConflict(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	mustCreate(t, e, 1, "2024-06-10", "2024-06-15")

	_, err := e.CreateReservation(ctx, CreateRequest{
		GuestName:  "Hanako Sato",
		GuestEmail: "hanako@example.com",
		RoomID:     1,
		PlanID:     2,
		CheckIn:    date("2024-06-12"),
		CheckOut:   date("2024-06-17"),
	})
	if !errors.Is(err, ErrDateRangeConflict) {
		t.Fatalf("got %v, want ErrDateRangeConflict", err)
	}
}

func TestCanceledReservationReleasesDates(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	conf := mustCreate(t, e, 1, "2024-06-10", "2024-06-15")

	if err := e.Cancel(ctx, conf.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	av, err := e.CheckAvailability(ctx, 1, date("2024-06-10"), date("2024-06-15"))
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !av.Available {
		t.Error("canceled reservation still blocks its dates")
	}
	mustCreate(t, e, 1, "2024-06-10", "2024-06-15")
}

func TestConcurrentCreateExactlyOneWins(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.CreateReservation(ctx, CreateRequest{
				GuestName:  fmt.Sprintf("Guest %d", i),
				GuestEmail: fmt.Sprintf("guest%d@example.com", i),
				RoomID:     1,
				PlanID:     1,
				CheckIn:    date("2024-07-01"),
				CheckOut:   date("2024-07-05"),
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrDateRangeConflict):
		default:
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Fatalf("%d concurrent identical bookings succeeded, want exactly 1", won)
	}
}

func TestConcurrentCreateInvariantRandomized(t *testing.T) {
	// Hammer one room with overlapping random intervals and verify that
	// no two surviving reservations overlap.
	e, store := newTestEngine()
	ctx := context.Background()
	base := date("2024-08-01")

	var wg sync.WaitGroup
	for trial := 0; trial < 200; trial++ {
		wg.Add(1)
		go func(trial int) {
			defer wg.Done()
			start := base.AddDate(0, 0, trial%14)
			end := start.AddDate(0, 0, 1+trial%4)
			_, _ = e.CreateReservation(ctx, CreateRequest{
				GuestName:  fmt.Sprintf("Guest %d", trial),
				GuestEmail: fmt.Sprintf("g%d@example.com", trial),
				RoomID:     1,
				PlanID:     1,
				CheckIn:    start,
				CheckOut:   end,
			})
		}(trial)
	}
	wg.Wait()

	var kept []*model.Reservation
	for id := uint64(1); ; id++ {
		res, err := store.GetByID(ctx, id)
		if err != nil {
			break
		}
		kept = append(kept, res)
	}
	if len(kept) == 0 {
		t.Fatal("no reservation survived the randomized trials")
	}
	for i := 0; i < len(kept); i++ {
		for j := i + 1; j < len(kept); j++ {
			a, b := kept[i], kept[j]
			if a.CheckIn.Before(b.CheckOut) && a.CheckOut.After(b.CheckIn) {
				t.Fatalf("overlapping reservations coexist: #%d [%s,%s) and #%d [%s,%s)",
					a.ID, a.CheckIn.Format("2006-01-02"), a.CheckOut.Format("2006-01-02"),
					b.ID, b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
			}
		}
	}
}

func TestMarkPaidIdempotent(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()
	conf := mustCreate(t, e, 1, "2024-06-01", "2024-06-03")

	if err := e.MarkPaid(ctx, conf.ID, "pi_123"); err != nil {
		t.Fatalf("first MarkPaid: %v", err)
	}
	if err := e.MarkPaid(ctx, conf.ID, "pi_123"); err != nil {
		t.Fatalf("second MarkPaid: %v", err)
	}
	res, _ := store.GetByID(ctx, conf.ID)
	if res.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", res.Status)
	}
	if res.PaymentRef == nil || *res.PaymentRef != "pi_123" {
		t.Errorf("payment ref not recorded: %v", res.PaymentRef)
	}
}

func TestMarkFailedIdempotent(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()
	conf := mustCreate(t, e, 1, "2024-06-01", "2024-06-03")

	if err := e.MarkFailed(ctx, conf.ID); err != nil {
		t.Fatalf("first MarkFailed: %v", err)
	}
	if err := e.MarkFailed(ctx, conf.ID); err != nil {
		t.Fatalf("second MarkFailed: %v", err)
	}
	res, _ := store.GetByID(ctx, conf.ID)
	if res.Status != model.StatusFailed {
		t.Errorf("status = %s, want FAILED", res.Status)
	}
}

func TestInvalidTransitions(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()
	conf := mustCreate(t, e, 1, "2024-06-01", "2024-06-03")

	if err := e.Cancel(ctx, conf.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := e.MarkPaid(ctx, conf.ID, "pi_999"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("MarkPaid on CANCELED: got %v, want ErrInvalidTransition", err)
	}
	if err := e.Complete(ctx, conf.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Complete on CANCELED: got %v, want ErrInvalidTransition", err)
	}
	if err := e.MarkPaid(ctx, 12345, ""); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("MarkPaid on unknown id: got %v, want ErrReservationNotFound", err)
	}
}

func TestCompleteAfterConfirm(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()
	conf := mustCreate(t, e, 1, "2024-06-01", "2024-06-03")

	if err := e.Complete(ctx, conf.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Complete on PENDING: got %v, want ErrInvalidTransition", err)
	}
	if err := e.MarkPaid(ctx, conf.ID, "pi_1"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if err := e.Complete(ctx, conf.ID); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := e.Complete(ctx, conf.ID); err != nil {
		t.Fatalf("second Complete: %v", err)
	}
	res, _ := store.GetByID(ctx, conf.ID)
	if res.Status != model.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", res.Status)
	}
}

type confirmRecorder struct {
	mu  sync.Mutex
	ids []uint64
}

func (r *confirmRecorder) ReservationConfirmed(_ context.Context, res *model.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, res.ID)
}

func TestNotifierFiresOncePerConfirmation(t *testing.T) {
	store := NewMemoryStore()
	rec := &confirmRecorder{}
	e := NewEngine(testCatalog(), store, rec)
	ctx := context.Background()
	conf := mustCreate(t, e, 1, "2024-06-01", "2024-06-03")

	if err := e.MarkPaid(ctx, conf.ID, "pi_1"); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if err := e.MarkPaid(ctx, conf.ID, "pi_1"); err != nil {
		t.Fatalf("repeat MarkPaid: %v", err)
	}
	if len(rec.ids) != 1 || rec.ids[0] != conf.ID {
		t.Errorf("notifier calls = %v, want exactly one for #%d", rec.ids, conf.ID)
	}
}
