package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

func testWallet(t *testing.T) *entities.Wallet {
	t.Helper()
	wallet, err := entities.NewProvisionedWallet(1, valueobjects.KES)
	if err != nil {
		t.Fatalf("NewProvisionedWallet() error = %v", err)
	}
	return wallet
}

func testMoney(t *testing.T, amount string) valueobjects.Money {
	t.Helper()
	money, err := valueobjects.NewMoney(amount, valueobjects.KES)
	if err != nil {
		t.Fatalf("NewMoney(%q) error = %v", amount, err)
	}
	return money
}

// TestLimitEngine_Admit tests admission against the low-tier windows
// (5000/20000 units).
func TestLimitEngine_Admit(t *testing.T) {
	ctx := context.Background()
	wallet := testWallet(t)

	tests := []struct {
		name        string
		dailyUsed   int64 // cents returned for the day window
		monthlyUsed int64 // cents returned for the month window
		amount      string
		wantWindow  string // empty means admitted
	}{
		{"no usage admits", 0, 0, "100.00", ""},
		{"exactly at daily limit admits", 400000, 400000, "1000.00", ""},
		{"one cent over daily rejects", 400001, 400001, "1000.00", "DAILY"},
		{"daily ok but monthly exhausted", 0, 1950000, "600.00", "MONTHLY"},
		{"amount alone above daily limit", 0, 0, "5000.01", "DAILY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sinces []time.Time
			txRepo := &mockTransactionRepo{
				sumCompletedUsageFunc: func(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error) {
					sinces = append(sinces, since)
					if len(sinces) == 1 {
						return tt.dailyUsed, nil
					}
					return tt.monthlyUsed, nil
				},
			}
			engine := NewLimitEngine(txRepo)
			engine.now = func() time.Time {
				return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
			}

			err := engine.Admit(ctx, wallet, testMoney(t, tt.amount))

			if tt.wantWindow == "" {
				if err != nil {
					t.Fatalf("Expected admission, got: %v", err)
				}
				return
			}

			var limitErr *domainErrors.LimitExceededError
			if !errors.As(err, &limitErr) {
				t.Fatalf("Expected LimitExceededError, got %T: %v", err, err)
			}
			if limitErr.Window != tt.wantWindow {
				t.Errorf("Window = %s, want %s", limitErr.Window, tt.wantWindow)
			}
		})
	}
}

// TestLimitEngine_Windows tests that the UTC day and month boundaries
// feed the usage query.
func TestLimitEngine_Windows(t *testing.T) {
	ctx := context.Background()

	var sinces []time.Time
	txRepo := &mockTransactionRepo{
		sumCompletedUsageFunc: func(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error) {
			sinces = append(sinces, since)
			return 0, nil
		},
	}
	engine := NewLimitEngine(txRepo)
	engine.now = func() time.Time {
		return time.Date(2025, 3, 15, 23, 59, 59, 0, time.UTC)
	}

	if err := engine.Admit(ctx, testWallet(t), testMoney(t, "1.00")); err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	if len(sinces) != 2 {
		t.Fatalf("Expected 2 usage queries, got %d", len(sinces))
	}
	wantDay := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if !sinces[0].Equal(wantDay) {
		t.Errorf("Day window start = %v, want %v", sinces[0], wantDay)
	}
	wantMonth := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !sinces[1].Equal(wantMonth) {
		t.Errorf("Month window start = %v, want %v", sinces[1], wantMonth)
	}
}
