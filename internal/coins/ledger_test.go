package coins

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"museumrewards/internal/kv"
	"museumrewards/internal/kv/kvtest"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLedger(t *testing.T) (*Ledger, *kv.Memory, *fakeClock) {
	t.Helper()
	store := kv.NewMemory()
	clock := &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
	return New(store, WithClock(clock.Now), WithLocation(time.UTC)), store, clock
}

func TestBalanceDefaultsToZero(t *testing.T) {
	led, _, _ := newTestLedger(t)
	if got := led.Balance(context.Background()); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestSubtract(t *testing.T) {
	cases := []struct {
		name   string
		start  int
		amount int
		want   int
		wantOK bool
	}{
		{"exact", 100, 100, 0, true},
		{"partial", 100, 30, 70, true},
		{"insufficient", 50, 100, 50, false},
		{"empty", 0, 1, 0, false},
		{"zero amount", 20, 0, 20, false},
		{"negative amount", 20, -5, 20, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			led, _, _ := newTestLedger(t)
			ctx := context.Background()
			if tc.start > 0 {
				led.Add(ctx, tc.start)
			}
			got, ok := led.Subtract(ctx, tc.amount)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("Subtract(%d) = %d, %v; want %d, %v", tc.amount, got, ok, tc.want, tc.wantOK)
			}
			if bal := led.Balance(ctx); bal != tc.want {
				t.Fatalf("balance after subtract = %d, want %d", bal, tc.want)
			}
		})
	}
}

func TestAddThenSubtractIsIdentity(t *testing.T) {
	led, _, _ := newTestLedger(t)
	ctx := context.Background()
	led.Add(ctx, 37)
	for _, amount := range []int{1, 5, 100, 999} {
		before := led.Balance(ctx)
		led.Add(ctx, amount)
		if _, ok := led.Subtract(ctx, amount); !ok {
			t.Fatalf("subtract %d failed", amount)
		}
		if after := led.Balance(ctx); after != before {
			t.Fatalf("round trip of %d changed balance %d -> %d", amount, before, after)
		}
	}
}

func TestBalanceStoredAsDecimalString(t *testing.T) {
	led, store, _ := newTestLedger(t)
	ctx := context.Background()
	led.Add(ctx, 120)
	raw, _, _ := store.Get(ctx, BalanceKey)
	if raw != "120" {
		t.Fatalf("stored balance %q", raw)
	}
}

func TestCheckDailyLoginOncePerDay(t *testing.T) {
	led, store, clock := newTestLedger(t)
	ctx := context.Background()

	first := led.CheckDailyLogin(ctx)
	if !first.EarnedCoins || first.CoinsAwarded != DefaultDailyLoginReward || first.TotalCoins != DefaultDailyLoginReward {
		t.Fatalf("first login = %+v", first)
	}
	if marker, _, _ := store.Get(ctx, LastLoginKey); marker != "Fri Oct 16 2026" {
		t.Fatalf("marker = %q", marker)
	}

	clock.Advance(10 * time.Hour)
	second := led.CheckDailyLogin(ctx)
	if second.EarnedCoins || second.CoinsAwarded != 0 || second.TotalCoins != DefaultDailyLoginReward {
		t.Fatalf("same-day login = %+v", second)
	}

	clock.Advance(5 * time.Hour)
	third := led.CheckDailyLogin(ctx)
	if !third.EarnedCoins || third.TotalCoins != 2*DefaultDailyLoginReward {
		t.Fatalf("next-day login = %+v", third)
	}
}

func TestCheckDailyLoginReportedEqualsCredited(t *testing.T) {
	store := kv.NewMemory()
	led := New(store, WithRewards(Rewards{DailyLogin: 25, FirstView: 3}))
	ctx := context.Background()
	res := led.CheckDailyLogin(ctx)
	if res.CoinsAwarded != 25 || led.Balance(ctx) != 25 {
		t.Fatalf("reported %d, balance %d", res.CoinsAwarded, led.Balance(ctx))
	}
}

func TestCheckDailyLoginUsesCallerZone(t *testing.T) {
	led, store, _ := newTestLedger(t)
	honolulu, err := time.LoadLocation("Pacific/Honolulu")
	if err != nil {
		t.Fatal(err)
	}
	// 09:00 UTC on Oct 16 is still Oct 15 in Honolulu.
	ctx := ContextWithLocation(context.Background(), honolulu)
	led.CheckDailyLogin(ctx)
	if marker, _, _ := store.Get(ctx, LastLoginKey); marker != "Thu Oct 15 2026" {
		t.Fatalf("marker = %q", marker)
	}
	if zone, _, _ := store.Get(ctx, TimezoneKey); zone != "Pacific/Honolulu" {
		t.Fatalf("zone = %q", zone)
	}
}

func TestCheckDailyLoginZoneIsPinned(t *testing.T) {
	led, store, clock := newTestLedger(t)
	kiritimati, _ := time.LoadLocation("Pacific/Kiritimati")
	honolulu, _ := time.LoadLocation("Pacific/Honolulu")
	zones := []*time.Location{kiritimati, honolulu}

	grants := 0
	for i := 0; i < 10; i++ {
		ctx := ContextWithLocation(context.Background(), zones[i%2])
		if led.CheckDailyLogin(ctx).EarnedCoins {
			grants++
		}
	}
	if grants != 1 {
		t.Fatalf("expected one grant across zone switches, got %d", grants)
	}
	if got := led.Balance(context.Background()); got != DefaultDailyLoginReward {
		t.Fatalf("balance = %d", got)
	}
	if marker, _, _ := store.Get(context.Background(), LastLoginKey); marker != "Fri Oct 16 2026" {
		t.Fatalf("marker = %q", marker)
	}

	// 23:00 UTC is Oct 17 in the pinned Kiritimati zone.
	clock.Advance(14 * time.Hour)
	if !led.CheckDailyLogin(ContextWithLocation(context.Background(), honolulu)).EarnedCoins {
		t.Fatal("expected a grant on the next pinned day")
	}
}

func TestCheckDailyLoginUnnamedZoneFallsBack(t *testing.T) {
	led, store, _ := newTestLedger(t)
	ctx := ContextWithLocation(context.Background(), time.FixedZone("", -10*60*60))
	led.CheckDailyLogin(ctx)
	if zone, _, _ := store.Get(ctx, TimezoneKey); zone != "UTC" {
		t.Fatalf("zone = %q", zone)
	}
	if marker, _, _ := store.Get(ctx, LastLoginKey); marker != "Fri Oct 16 2026" {
		t.Fatalf("marker = %q", marker)
	}
}

func TestCheckDailyLoginComparesStrings(t *testing.T) {
	led, store, _ := newTestLedger(t)
	ctx := context.Background()
	// A marker from the future still differs from today and grants.
	_ = store.Set(ctx, LastLoginKey, "Sat Oct 17 2026")
	if res := led.CheckDailyLogin(ctx); !res.EarnedCoins {
		t.Fatal("expected grant for differing marker")
	}
}

func TestViewItemFirstViewOnly(t *testing.T) {
	led, store, _ := newTestLedger(t)
	ctx := context.Background()

	first := led.ViewItem(ctx, "42")
	if !first.IsFirstView || !first.EarnedCoins || first.CoinsAwarded != DefaultFirstViewReward || first.TotalCoins != DefaultFirstViewReward {
		t.Fatalf("first view = %+v", first)
	}
	for i := 0; i < 3; i++ {
		again := led.ViewItem(ctx, "42")
		if again.IsFirstView || again.EarnedCoins || again.TotalCoins != DefaultFirstViewReward {
			t.Fatalf("repeat view = %+v", again)
		}
	}
	led.ViewItem(ctx, "7")
	if raw, _, _ := store.Get(ctx, ViewedItemsKey); raw != `["42","7"]` {
		t.Fatalf("viewed items = %s", raw)
	}
	stats := led.Stats(ctx)
	if stats.ItemsViewed != 2 || stats.TotalCoins != 2*DefaultFirstViewReward {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestResetAllScenario(t *testing.T) {
	led, store, clock := newTestLedger(t)
	ctx := context.Background()
	_ = store.Set(ctx, "@museum_night_theme", "true")

	led.CheckDailyLogin(ctx)
	led.ViewItem(ctx, "1")
	led.Add(ctx, 50)

	if !led.ResetAll(ctx) {
		t.Fatal("reset failed")
	}
	stats := led.Stats(ctx)
	if stats.TotalCoins != 0 || stats.ItemsViewed != 0 || len(stats.ViewedItemIDs) != 0 {
		t.Fatalf("stats after reset = %+v", stats)
	}
	if v, _, _ := store.Get(ctx, "@museum_night_theme"); v != "true" {
		t.Fatal("reset must not touch benefit flags")
	}

	clock.Advance(time.Hour)
	if res := led.CheckDailyLogin(ctx); !res.EarnedCoins {
		t.Fatal("marker should be cleared by reset")
	}
}

func TestResetAllIsSingleStoreCall(t *testing.T) {
	rec := kvtest.NewRecorder(kv.NewMemory())
	led := New(rec)
	led.ResetAll(context.Background())
	if len(rec.Calls) != 1 || rec.Calls[0] != "multiremove" {
		t.Fatalf("calls = %v", rec.Calls)
	}
}

func TestStoreFailuresDegrade(t *testing.T) {
	led := New(kvtest.Failing{})
	ctx := context.Background()

	if got := led.Balance(ctx); got != 0 {
		t.Fatalf("Balance = %d", got)
	}
	if got := led.Add(ctx, 10); got != 0 {
		t.Fatalf("Add = %d", got)
	}
	if _, ok := led.Subtract(ctx, 10); ok {
		t.Fatal("Subtract should fail")
	}
	if res := led.CheckDailyLogin(ctx); res.EarnedCoins || res.TotalCoins != 0 {
		t.Fatalf("CheckDailyLogin = %+v", res)
	}
	if res := led.ViewItem(ctx, "1"); res.IsFirstView || res.EarnedCoins {
		t.Fatalf("ViewItem = %+v", res)
	}
	if stats := led.Stats(ctx); stats.TotalCoins != 0 || stats.ViewedItemIDs == nil {
		t.Fatalf("Stats = %+v", stats)
	}
	if led.ResetAll(ctx) {
		t.Fatal("ResetAll should report failure")
	}
}

func TestSubtractWriteFailureLeavesBalance(t *testing.T) {
	rec := kvtest.NewRecorder(kv.NewMemory())
	led := New(rec)
	ctx := context.Background()
	led.Add(ctx, 100)
	rec.FailWrites(BalanceKey)

	bal, ok := led.Subtract(ctx, 40)
	if ok || bal != 100 {
		t.Fatalf("Subtract = %d, %v", bal, ok)
	}
	if got := led.Balance(ctx); got != 100 {
		t.Fatalf("balance = %d", got)
	}
}

func TestConcurrentCreditsAreNotLost(t *testing.T) {
	led, _, _ := newTestLedger(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			led.Add(ctx, 2)
		}()
	}
	wg.Wait()
	if got := led.Balance(ctx); got != 100 {
		t.Fatalf("balance = %d, want 100", got)
	}
}

func TestPurchase(t *testing.T) {
	led, _, _ := newTestLedger(t)
	ctx := context.Background()

	res, err := led.Purchase(ctx, "medium")
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalCoins != 500 || res.Pack.Coins != 500 {
		t.Fatalf("purchase = %+v", res)
	}
	if _, err := led.Purchase(ctx, "platinum"); err != ErrUnknownPack {
		t.Fatalf("expected ErrUnknownPack, got %v", err)
	}
	if got := led.Balance(ctx); got != 500 {
		t.Fatalf("balance = %d", got)
	}
}
