package entities

import (
	"testing"

	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// TestWalletStatus_IsValid tests the WalletStatus validation
func TestWalletStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   WalletStatus
		expected bool
	}{
		{"ACTIVE is valid", WalletStatusActive, true},
		{"SUSPENDED is valid", WalletStatusSuspended, true},
		{"CLOSED is valid", WalletStatusClosed, true},
		{"Invalid status", WalletStatus("INVALID"), false},
		{"Empty status", WalletStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("WalletStatus.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestNewWallet_Success tests explicit wallet creation with default limits
func TestNewWallet_Success(t *testing.T) {
	wallet, err := NewWallet(42, valueobjects.KES)

	if err != nil {
		t.Fatalf("NewWallet() error = %v, want nil", err)
	}

	if wallet.ID() == uuid.Nil {
		t.Error("Wallet ID should not be nil")
	}

	if wallet.CustomerID() != 42 {
		t.Errorf("CustomerID = %v, want 42", wallet.CustomerID())
	}

	if wallet.Status() != WalletStatusActive {
		t.Errorf("Status = %v, want %v", wallet.Status(), WalletStatusActive)
	}

	if !wallet.Balance().IsZero() {
		t.Errorf("Balance should be zero, got %v", wallet.Balance())
	}

	if wallet.Version() != 0 {
		t.Errorf("Version = %v, want 0", wallet.Version())
	}

	if wallet.DailyLimit().Cents() != DefaultDailyLimitUnits*100 {
		t.Errorf("DailyLimit = %v cents, want %v", wallet.DailyLimit().Cents(), DefaultDailyLimitUnits*100)
	}

	if wallet.MonthlyLimit().Cents() != DefaultMonthlyLimitUnits*100 {
		t.Errorf("MonthlyLimit = %v cents, want %v", wallet.MonthlyLimit().Cents(), DefaultMonthlyLimitUnits*100)
	}
}

// TestNewProvisionedWallet tests event-driven provisioning with low limits
func TestNewProvisionedWallet(t *testing.T) {
	wallet, err := NewProvisionedWallet(7, valueobjects.KES)

	if err != nil {
		t.Fatalf("NewProvisionedWallet() error = %v, want nil", err)
	}

	if wallet.DailyLimit().Cents() != LowDailyLimitUnits*100 {
		t.Errorf("DailyLimit = %v cents, want %v", wallet.DailyLimit().Cents(), LowDailyLimitUnits*100)
	}

	if wallet.MonthlyLimit().Cents() != LowMonthlyLimitUnits*100 {
		t.Errorf("MonthlyLimit = %v cents, want %v", wallet.MonthlyLimit().Cents(), LowMonthlyLimitUnits*100)
	}
}

// TestNewWallet_Validation tests constructor validation
func TestNewWallet_Validation(t *testing.T) {
	t.Run("Missing customer id", func(t *testing.T) {
		_, err := NewWallet(0, valueobjects.KES)
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("Missing currency", func(t *testing.T) {
		_, err := NewWallet(1, valueobjects.Currency{})
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

// TestWallet_ApplyCredit tests the projector's credit path
func TestWallet_ApplyCredit(t *testing.T) {
	wallet, _ := NewWallet(1, valueobjects.KES)
	amount, _ := valueobjects.NewMoney("100.00", valueobjects.KES)

	if err := wallet.ApplyCredit(amount); err != nil {
		t.Fatalf("ApplyCredit() error = %v", err)
	}

	if wallet.Balance().Cents() != 10000 {
		t.Errorf("Balance = %v cents, want 10000", wallet.Balance().Cents())
	}

	if wallet.Version() != 1 {
		t.Errorf("Version = %v, want 1 after mutation", wallet.Version())
	}
}

// TestWallet_ApplyDebit tests the projector's debit path
func TestWallet_ApplyDebit(t *testing.T) {
	t.Run("Sufficient balance", func(t *testing.T) {
		wallet, _ := NewWallet(1, valueobjects.KES)
		credit, _ := valueobjects.NewMoney("500.00", valueobjects.KES)
		_ = wallet.ApplyCredit(credit)

		debit, _ := valueobjects.NewMoney("150.00", valueobjects.KES)
		if err := wallet.ApplyDebit(debit); err != nil {
			t.Fatalf("ApplyDebit() error = %v", err)
		}

		if wallet.Balance().Cents() != 35000 {
			t.Errorf("Balance = %v cents, want 35000", wallet.Balance().Cents())
		}

		if wallet.Version() != 2 {
			t.Errorf("Version = %v, want 2 after two mutations", wallet.Version())
		}
	})

	t.Run("Insufficient balance rejected", func(t *testing.T) {
		wallet, _ := NewWallet(1, valueobjects.KES)
		debit, _ := valueobjects.NewMoney("10.00", valueobjects.KES)

		err := wallet.ApplyDebit(debit)
		if err != errors.ErrInsufficientBalance {
			t.Errorf("ApplyDebit() error = %v, want ErrInsufficientBalance", err)
		}

		if wallet.Version() != 0 {
			t.Error("Failed debit must not bump the version")
		}
	})
}

// TestWallet_StatusTransitions tests suspend/activate/close rules
func TestWallet_StatusTransitions(t *testing.T) {
	t.Run("Suspend then activate", func(t *testing.T) {
		wallet, _ := NewWallet(1, valueobjects.KES)

		if err := wallet.Suspend(); err != nil {
			t.Fatalf("Suspend() error = %v", err)
		}
		if wallet.Status() != WalletStatusSuspended {
			t.Errorf("Status = %v, want SUSPENDED", wallet.Status())
		}
		if wallet.IsActive() {
			t.Error("Suspended wallet should not be active")
		}

		if err := wallet.Activate(); err != nil {
			t.Fatalf("Activate() error = %v", err)
		}
		if !wallet.IsActive() {
			t.Error("Activated wallet should be active")
		}
	})

	t.Run("Closed is terminal", func(t *testing.T) {
		wallet, _ := NewWallet(1, valueobjects.KES)
		if err := wallet.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		if err := wallet.Suspend(); !errors.IsBusinessRuleViolation(err) {
			t.Errorf("Suspend on closed wallet: error = %v, want business rule violation", err)
		}
		if err := wallet.Activate(); !errors.IsBusinessRuleViolation(err) {
			t.Errorf("Activate on closed wallet: error = %v, want business rule violation", err)
		}
	})

	t.Run("Cannot close non-zero wallet", func(t *testing.T) {
		wallet, _ := NewWallet(1, valueobjects.KES)
		amount, _ := valueobjects.NewMoney("1.00", valueobjects.KES)
		_ = wallet.ApplyCredit(amount)

		if err := wallet.Close(); !errors.IsBusinessRuleViolation(err) {
			t.Errorf("Close with balance: error = %v, want business rule violation", err)
		}
	})
}

// TestWallet_RaiseLimits tests the verified tier transition
func TestWallet_RaiseLimits(t *testing.T) {
	wallet, _ := NewProvisionedWallet(1, valueobjects.KES)

	wallet.RaiseLimits()

	if wallet.DailyLimit().Cents() != VerifiedDailyLimitUnits*100 {
		t.Errorf("DailyLimit = %v cents, want %v", wallet.DailyLimit().Cents(), VerifiedDailyLimitUnits*100)
	}
	if wallet.MonthlyLimit().Cents() != VerifiedMonthlyLimitUnits*100 {
		t.Errorf("MonthlyLimit = %v cents, want %v", wallet.MonthlyLimit().Cents(), VerifiedMonthlyLimitUnits*100)
	}
}

// TestWallet_IsOwnedBy tests ownership checks
func TestWallet_IsOwnedBy(t *testing.T) {
	wallet, _ := NewWallet(5, valueobjects.KES)

	if !wallet.IsOwnedBy(5) {
		t.Error("Wallet should be owned by customer 5")
	}
	if wallet.IsOwnedBy(6) {
		t.Error("Wallet should not be owned by customer 6")
	}
}

// TestReconstructWallet tests hydration from storage
func TestReconstructWallet(t *testing.T) {
	id := uuid.New()
	balance, _ := valueobjects.NewMoneyFromCents(12345, valueobjects.KES)
	daily, _ := valueobjects.NewMoneyFromInt(5000, valueobjects.KES)
	monthly, _ := valueobjects.NewMoneyFromInt(20000, valueobjects.KES)

	wallet, _ := NewWallet(1, valueobjects.KES)
	restored := ReconstructWallet(
		id, 9, valueobjects.KES, WalletStatusSuspended,
		balance, 3, daily, monthly,
		wallet.CreatedAt(), wallet.UpdatedAt(),
	)

	if restored.ID() != id {
		t.Errorf("ID = %v, want %v", restored.ID(), id)
	}
	if restored.CustomerID() != 9 {
		t.Errorf("CustomerID = %v, want 9", restored.CustomerID())
	}
	if restored.Status() != WalletStatusSuspended {
		t.Errorf("Status = %v, want SUSPENDED", restored.Status())
	}
	if restored.Balance().Cents() != 12345 {
		t.Errorf("Balance = %v cents, want 12345", restored.Balance().Cents())
	}
	if restored.Version() != 3 {
		t.Errorf("Version = %v, want 3", restored.Version())
	}
}
