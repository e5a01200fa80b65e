package gamestate

import "testing"

func TestTick_DecrementsAndClamps(t *testing.T) {
	tt := NewTurnTimer(0)
	tt.Seed(0.5, false)

	if got := tt.Tick(0.25); got != 0.25 {
		t.Fatalf("after one tick: %v", got)
	}
	if got := tt.Tick(0.25); got != 0 {
		t.Fatalf("after two ticks: %v", got)
	}
	if got := tt.Tick(0.25); got != 0 {
		t.Fatalf("expected clamp at zero, got %v", got)
	}
}

func TestReconcile_ToleranceBoundary(t *testing.T) {
	cases := []struct {
		name  string
		local float64
		auth  float64
		adopt bool
	}{
		{"well inside tolerance", 10, 11, false},
		{"exactly at tolerance", 10, 12, false},
		{"just above tolerance", 10, 12.01, true},
		{"just below tolerance downward", 10, 8.01, false},
		{"exactly at tolerance downward", 10, 8, false},
		{"just beyond tolerance downward", 10, 7.99, true},
		{"new turn resync", 3, 30, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tt := NewTurnTimer(2.0)
			tt.Seed(tc.local, false)
			adopted := tt.Reconcile(tc.auth)
			if adopted != tc.adopt {
				t.Fatalf("Reconcile(%v) adopted=%v, want %v", tc.auth, adopted, tc.adopt)
			}
			want := tc.local
			if tc.adopt {
				want = tc.auth
			}
			if got := tt.Remaining(); got != want {
				t.Fatalf("Remaining() = %v, want %v", got, want)
			}
		})
	}
}

func TestReconcile_DoesNotBlockTicks(t *testing.T) {
	tt := NewTurnTimer(2.0)
	tt.Seed(10, false)
	tt.Reconcile(10.5) // within tolerance, ignored
	if got := tt.Tick(0.25); got != 9.75 {
		t.Fatalf("tick after ignored reconcile: %v", got)
	}
}

func TestSetBankMode_SwitchAdoptsValue(t *testing.T) {
	tt := NewTurnTimer(2.0)
	tt.Seed(1, false)

	tt.SetBankMode(true, 60)
	if !tt.BankMode() || tt.Remaining() != 60 {
		t.Fatalf("switching to bank mode should adopt the bank value, got %v", tt.Remaining())
	}

	// Within bank mode the tolerance rule applies.
	tt.Tick(0.25)
	tt.SetBankMode(true, 60)
	if got := tt.Remaining(); got != 59.75 {
		t.Fatalf("bank jitter inside tolerance must be ignored, got %v", got)
	}
	tt.SetBankMode(true, 50)
	if got := tt.Remaining(); got != 50 {
		t.Fatalf("material bank difference must snap, got %v", got)
	}

	tt.SetBankMode(false, 30)
	if tt.BankMode() || tt.Remaining() != 30 {
		t.Fatalf("switching back should adopt the per-turn value, got %v", tt.Remaining())
	}
}
