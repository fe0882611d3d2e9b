package cache

import (
	"context"
	"testing"
	"time"

	"fieldservice_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, logger.New("development"))
}

func TestStoreJSONRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Hours float64 `json:"hours"`
	}

	store.SetJSON(ctx, "k1", payload{Name: "Jane Doe", Hours: 5}, time.Minute)

	var got payload
	if !store.GetJSON(ctx, "k1", &got) {
		t.Fatalf("expected cache hit for k1")
	}
	if got.Name != "Jane Doe" || got.Hours != 5 {
		t.Fatalf("unexpected cached payload: %+v", got)
	}

	if store.GetJSON(ctx, "missing", &got) {
		t.Fatalf("expected cache miss for unknown key")
	}
}

func TestNilStoreAlwaysMisses(t *testing.T) {
	var store *Store
	ctx := context.Background()

	store.SetJSON(ctx, "k", "v", time.Minute)

	var out string
	if store.GetJSON(ctx, "k", &out) {
		t.Fatalf("nil store must behave as a miss")
	}
}

func TestInvalidateWorkOrderDropsDependentGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, GroupWorkOrderList.Key("page1"), "list", time.Minute)
	store.SetJSON(ctx, GroupWorkOrderDetail.Key("wo1"), "detail", time.Minute)
	store.SetJSON(ctx, GroupScheduleBoard.Key("2026-03-01"), "board", time.Minute)
	store.SetJSON(ctx, string(GroupDashboardStats), "stats", time.Minute)

	NewInvalidator(store).InvalidateEntity(ctx, "workorder")

	var out string
	if store.GetJSON(ctx, GroupWorkOrderList.Key("page1"), &out) {
		t.Fatalf("work-order list should have been invalidated")
	}
	if store.GetJSON(ctx, GroupScheduleBoard.Key("2026-03-01"), &out) {
		t.Fatalf("schedule board should have been invalidated")
	}
	if store.GetJSON(ctx, string(GroupDashboardStats), &out) {
		t.Fatalf("dashboard stats should have been invalidated")
	}
}

func TestInvalidateTechnicianLeavesWorkOrderListIntact(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.SetJSON(ctx, GroupWorkOrderList.Key("page1"), "list", time.Minute)
	store.SetJSON(ctx, GroupScheduleBoard.Key("2026-03-01"), "board", time.Minute)

	NewInvalidator(store).InvalidateEntity(ctx, "technician")

	var out string
	if !store.GetJSON(ctx, GroupWorkOrderList.Key("page1"), &out) {
		t.Fatalf("technician changes must not invalidate the work-order list")
	}
	if store.GetJSON(ctx, GroupScheduleBoard.Key("2026-03-01"), &out) {
		t.Fatalf("technician changes must invalidate the schedule board")
	}
}
