package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/domain/entities"
	domainErrors "github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

type commandFixture struct {
	walletRepo *mockWalletRepo
	txRepo     *mockTransactionRepo
	ledgerRepo *mockLedgerRepo
	publisher  *mockEventPublisher
	useCase    *CommandUseCase
}

func newCommandFixture(wallets map[uuid.UUID]*entities.Wallet) *commandFixture {
	f := &commandFixture{
		walletRepo: &mockWalletRepo{},
		txRepo:     &mockTransactionRepo{},
		ledgerRepo: &mockLedgerRepo{},
		publisher:  &mockEventPublisher{},
	}
	f.walletRepo.findByIDFunc = func(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
		if w, ok := wallets[id]; ok {
			return w, nil
		}
		return nil, domainErrors.ErrEntityNotFound
	}
	f.useCase = NewCommandUseCase(
		f.walletRepo,
		f.txRepo,
		f.ledgerRepo,
		f.publisher,
		&mockUoW{},
		NewLimitEngine(f.txRepo),
		testLogger(),
	)
	return f
}

func (f *commandFixture) eventTypes() []string {
	types := make([]string, 0, len(f.publisher.publishedEvents))
	for _, e := range f.publisher.publishedEvents {
		types = append(types, e.EventType())
	}
	return types
}

// TestCommandUseCase_Deposit tests the happy path: PENDING insert,
// cash DEBIT + wallet CREDIT, COMPLETED.
func TestCommandUseCase_Deposit(t *testing.T) {
	ctx := context.Background()
	wallet := testWallet(t)
	f := newCommandFixture(map[uuid.UUID]*entities.Wallet{wallet.ID(): wallet})

	result, err := f.useCase.Deposit(ctx, dtos.DepositCommand{
		ToWalletID:     wallet.ID().String(),
		Amount:         "150.00",
		Currency:       "KES",
		IdempotencyKey: "dep-1",
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Status != string(entities.TransactionStatusCompleted) {
		t.Errorf("Status = %s, want COMPLETED", result.Status)
	}
	if result.Amount != "150.00" {
		t.Errorf("Amount = %s, want 150.00", result.Amount)
	}

	if len(f.ledgerRepo.appended) != 2 {
		t.Fatalf("Expected 2 ledger entries, got %d", len(f.ledgerRepo.appended))
	}
	debit, credit := f.ledgerRepo.appended[0], f.ledgerRepo.appended[1]
	if !debit.IsCashSide() || debit.EntryType() != entities.EntryTypeDebit {
		t.Error("Expected a cash DEBIT counter-entry")
	}
	if credit.IsCashSide() || credit.EntryType() != entities.EntryTypeCredit {
		t.Error("Expected a wallet CREDIT entry")
	}
	if credit.BalanceAfter().Cents() != 15000 {
		t.Errorf("BalanceAfter = %d cents, want 15000", credit.BalanceAfter().Cents())
	}

	want := []string{events.EventTypeTransactionInitiated, events.EventTypeTransactionCompleted}
	got := f.eventTypes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Events = %v, want %v", got, want)
	}
}

// TestCommandUseCase_Withdrawal tests balance derivation from the ledger
func TestCommandUseCase_Withdrawal(t *testing.T) {
	ctx := context.Background()
	wallet := testWallet(t)
	f := newCommandFixture(map[uuid.UUID]*entities.Wallet{wallet.ID(): wallet})
	f.ledgerRepo.walletBalanceFunc = func(ctx context.Context, walletID uuid.UUID) (int64, error) {
		return 20000, nil // 200.00 on the ledger
	}

	result, err := f.useCase.Withdraw(ctx, dtos.WithdrawalCommand{
		FromWalletID:   wallet.ID().String(),
		Amount:         "50.00",
		Currency:       "KES",
		IdempotencyKey: "wd-1",
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Status != string(entities.TransactionStatusCompleted) {
		t.Errorf("Status = %s, want COMPLETED", result.Status)
	}

	debit := f.ledgerRepo.appended[0]
	if debit.IsCashSide() || debit.EntryType() != entities.EntryTypeDebit {
		t.Error("Expected a wallet DEBIT entry")
	}
	if debit.BalanceAfter().Cents() != 15000 {
		t.Errorf("BalanceAfter = %d cents, want 15000", debit.BalanceAfter().Cents())
	}
}

// TestCommandUseCase_Transfer tests both endpoints and the paired entries
func TestCommandUseCase_Transfer(t *testing.T) {
	ctx := context.Background()
	from, to := testWallet(t), testWallet(t)
	f := newCommandFixture(map[uuid.UUID]*entities.Wallet{from.ID(): from, to.ID(): to})
	f.ledgerRepo.walletBalanceFunc = func(ctx context.Context, walletID uuid.UUID) (int64, error) {
		if walletID == from.ID() {
			return 30000, nil
		}
		return 1000, nil
	}

	result, err := f.useCase.Transfer(ctx, dtos.TransferCommand{
		FromWalletID:   from.ID().String(),
		ToWalletID:     to.ID().String(),
		Amount:         "100.00",
		Currency:       "KES",
		IdempotencyKey: "tr-1",
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Status != string(entities.TransactionStatusCompleted) {
		t.Errorf("Status = %s, want COMPLETED", result.Status)
	}

	if len(f.ledgerRepo.appended) != 2 {
		t.Fatalf("Expected 2 ledger entries, got %d", len(f.ledgerRepo.appended))
	}
	debit, credit := f.ledgerRepo.appended[0], f.ledgerRepo.appended[1]
	if *debit.WalletID() != from.ID() || debit.BalanceAfter().Cents() != 20000 {
		t.Errorf("Debit entry: wallet %v after %d, want source at 20000", debit.WalletID(), debit.BalanceAfter().Cents())
	}
	if *credit.WalletID() != to.ID() || credit.BalanceAfter().Cents() != 11000 {
		t.Errorf("Credit entry: wallet %v after %d, want target at 11000", credit.WalletID(), credit.BalanceAfter().Cents())
	}
}

// TestCommandUseCase_IdempotentReplay tests the silent replay: the stored
// row comes back with no new events or entries.
func TestCommandUseCase_IdempotentReplay(t *testing.T) {
	ctx := context.Background()
	wallet := testWallet(t)
	f := newCommandFixture(map[uuid.UUID]*entities.Wallet{wallet.ID(): wallet})

	stored, err := entities.NewDeposit(wallet.ID(), testMoney(t, "150.00"), "dep-1")
	if err != nil {
		t.Fatalf("NewDeposit() error = %v", err)
	}
	_ = stored.MarkCompleted()
	f.txRepo.findByIdempotencyKeyFunc = func(ctx context.Context, key string) (*entities.Transaction, error) {
		return stored, nil
	}

	result, err := f.useCase.Deposit(ctx, dtos.DepositCommand{
		ToWalletID:     wallet.ID().String(),
		Amount:         "150.00",
		Currency:       "KES",
		IdempotencyKey: "dep-1",
	})

	if err != nil {
		t.Fatalf("Expected the stored transaction, got: %v", err)
	}
	if result.ID != stored.ID().String() {
		t.Errorf("ID = %s, want stored %s", result.ID, stored.ID())
	}
	if len(f.publisher.publishedEvents) != 0 {
		t.Error("Replay must not publish events")
	}
	if len(f.ledgerRepo.appended) != 0 {
		t.Error("Replay must not append ledger entries")
	}
}

// TestCommandUseCase_InsufficientBalance tests the FAILED record path
func TestCommandUseCase_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	wallet := testWallet(t)
	f := newCommandFixture(map[uuid.UUID]*entities.Wallet{wallet.ID(): wallet})
	// Ledger balance is zero by default.

	_, err := f.useCase.Withdraw(ctx, dtos.WithdrawalCommand{
		FromWalletID:   wallet.ID().String(),
		Amount:         "50.00",
		Currency:       "KES",
		IdempotencyKey: "wd-1",
	})

	if !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got: %v", err)
	}
	if len(f.ledgerRepo.appended) != 0 {
		t.Error("A failed command must leave no ledger entries")
	}

	// The last save must carry the FAILED status and reason.
	last := f.txRepo.saved[len(f.txRepo.saved)-1]
	if last.Status() != entities.TransactionStatusFailed {
		t.Errorf("Status = %s, want FAILED", last.Status())
	}
	if last.FailureReason() == "" {
		t.Error("Expected a failure reason")
	}

	got := f.eventTypes()
	if len(got) == 0 || got[len(got)-1] != events.EventTypeTransactionFailed {
		t.Errorf("Expected TRANSACTION_FAILED last, got %v", got)
	}
}

// TestCommandUseCase_WalletGuards tests the pre-admission wallet checks
func TestCommandUseCase_WalletGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown wallet", func(t *testing.T) {
		f := newCommandFixture(nil)

		_, err := f.useCase.Deposit(ctx, dtos.DepositCommand{
			ToWalletID:     uuid.NewString(),
			Amount:         "10.00",
			Currency:       "KES",
			IdempotencyKey: "dep-1",
		})

		if !domainErrors.IsNotFound(err) {
			t.Errorf("Expected not-found, got: %v", err)
		}
		if len(f.txRepo.saved) != 0 {
			t.Error("No transaction row expected before admission")
		}
	})

	t.Run("Suspended wallet", func(t *testing.T) {
		wallet := testWallet(t)
		if err := wallet.Suspend(); err != nil {
			t.Fatalf("Suspend() error = %v", err)
		}
		f := newCommandFixture(map[uuid.UUID]*entities.Wallet{wallet.ID(): wallet})

		_, err := f.useCase.Deposit(ctx, dtos.DepositCommand{
			ToWalletID:     wallet.ID().String(),
			Amount:         "10.00",
			Currency:       "KES",
			IdempotencyKey: "dep-1",
		})

		if !errors.Is(err, domainErrors.ErrWalletNotActive) {
			t.Errorf("Expected ErrWalletNotActive, got: %v", err)
		}
	})

	t.Run("Limit breach leaves no row", func(t *testing.T) {
		wallet := testWallet(t) // low tier: 5000 units daily
		f := newCommandFixture(map[uuid.UUID]*entities.Wallet{wallet.ID(): wallet})

		_, err := f.useCase.Deposit(ctx, dtos.DepositCommand{
			ToWalletID:     wallet.ID().String(),
			Amount:         "5000.01",
			Currency:       "KES",
			IdempotencyKey: "dep-1",
		})

		if !domainErrors.IsLimitExceeded(err) {
			t.Fatalf("Expected a limit breach, got: %v", err)
		}
		if len(f.txRepo.saved) != 0 {
			t.Error("A limit rejection must not record a transaction")
		}
		if len(f.publisher.publishedEvents) != 0 {
			t.Error("A limit rejection must not publish events")
		}
	})
}

// TestCommandUseCase_BothEndpointsAdmitted tests that a transfer checks
// the limit windows of both wallets.
func TestCommandUseCase_BothEndpointsAdmitted(t *testing.T) {
	ctx := context.Background()
	from := testWallet(t)
	to, err := entities.NewProvisionedWallet(2, valueobjects.KES)
	if err != nil {
		t.Fatalf("NewProvisionedWallet() error = %v", err)
	}
	f := newCommandFixture(map[uuid.UUID]*entities.Wallet{from.ID(): from, to.ID(): to})

	// The target wallet has exhausted its daily window.
	f.txRepo.sumCompletedUsageFunc = func(ctx context.Context, walletID uuid.UUID, since time.Time) (int64, error) {
		if walletID == to.ID() {
			return entities.LowDailyLimitUnits * 100, nil
		}
		return 0, nil
	}
	f.ledgerRepo.walletBalanceFunc = func(ctx context.Context, walletID uuid.UUID) (int64, error) {
		return 100000, nil
	}

	_, err = f.useCase.Transfer(ctx, dtos.TransferCommand{
		FromWalletID:   from.ID().String(),
		ToWalletID:     to.ID().String(),
		Amount:         "10.00",
		Currency:       "KES",
		IdempotencyKey: "tr-1",
	})

	if !domainErrors.IsLimitExceeded(err) {
		t.Errorf("Expected the target wallet's limit to reject, got: %v", err)
	}
}
