package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/finbridge/walletcore/internal/domain/events"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
)

// CommandUseCase executes the three money-movement commands. One call is
// one command; the flow is fixed:
//
//	shape validation, idempotent replay, wallet state checks, limit
//	admission, then one storage transaction {PENDING insert, INITIATED
//	outbox, wallet row locks, double entry, COMPLETED, COMPLETED outbox}
//
// A failure inside the storage transaction rolls it back and a separate
// transaction records the FAILED row plus TRANSACTION_FAILED, so the
// ledger never holds entries of a failed command.
type CommandUseCase struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	ledgerRepo ports.LedgerEntryRepository
	publisher  ports.EventPublisher
	uow        ports.UnitOfWork
	limits     *LimitEngine
	logger     *slog.Logger
}

// NewCommandUseCase wires the use case.
func NewCommandUseCase(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	ledgerRepo ports.LedgerEntryRepository,
	publisher ports.EventPublisher,
	uow ports.UnitOfWork,
	limits *LimitEngine,
	logger *slog.Logger,
) *CommandUseCase {
	return &CommandUseCase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		ledgerRepo: ledgerRepo,
		publisher:  publisher,
		uow:        uow,
		limits:     limits,
		logger:     logger,
	}
}

// Deposit credits a wallet from the cash account.
func (uc *CommandUseCase) Deposit(ctx context.Context, cmd dtos.DepositCommand) (*dtos.TransactionDTO, error) {
	amount, err := parseMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, err
	}
	to, err := parseWalletID("to_wallet_id", cmd.ToWalletID)
	if err != nil {
		return nil, err
	}

	tx, err := entities.NewDeposit(to, amount, cmd.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, tx)
}

// Withdraw debits a wallet to the cash account.
func (uc *CommandUseCase) Withdraw(ctx context.Context, cmd dtos.WithdrawalCommand) (*dtos.TransactionDTO, error) {
	amount, err := parseMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, err
	}
	from, err := parseWalletID("from_wallet_id", cmd.FromWalletID)
	if err != nil {
		return nil, err
	}

	tx, err := entities.NewWithdrawal(from, amount, cmd.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, tx)
}

// Transfer moves money between two wallets.
func (uc *CommandUseCase) Transfer(ctx context.Context, cmd dtos.TransferCommand) (*dtos.TransactionDTO, error) {
	amount, err := parseMoney(cmd.Amount, cmd.Currency)
	if err != nil {
		return nil, err
	}
	from, err := parseWalletID("from_wallet_id", cmd.FromWalletID)
	if err != nil {
		return nil, err
	}
	to, err := parseWalletID("to_wallet_id", cmd.ToWalletID)
	if err != nil {
		return nil, err
	}

	tx, err := entities.NewTransfer(from, to, amount, cmd.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, tx)
}

// execute runs the shared command algorithm on a freshly built PENDING
// transaction.
func (uc *CommandUseCase) execute(ctx context.Context, tx *entities.Transaction) (*dtos.TransactionDTO, error) {
	// Idempotent replay: a stored transaction under the key is returned
	// unchanged, regardless of its prior outcome, with no new events.
	if stored, err := uc.txRepo.FindByIdempotencyKey(ctx, tx.IdempotencyKey()); err == nil {
		uc.logger.Info("idempotent replay", "idempotency_key", tx.IdempotencyKey(), "transaction_id", stored.ID())
		dto := dtos.ToTransactionDTO(stored)
		return &dto, nil
	} else if !errors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	// Read-only wallet state resolution and limit admission, both ends
	// for a transfer.
	for _, walletID := range tx.WalletEndpoints() {
		wallet, err := uc.walletRepo.FindByID(ctx, walletID)
		if err != nil {
			return nil, err
		}
		if !wallet.IsActive() {
			return nil, errors.ErrWalletNotActive
		}
		if !wallet.Currency().Equals(tx.Amount().Currency()) {
			return nil, errors.ValidationError{Field: "currency", Message: "currency does not match the wallet"}
		}
		if err := uc.limits.Admit(ctx, wallet, tx.Amount()); err != nil {
			return nil, err
		}
	}

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := uc.txRepo.Save(txCtx, tx); err != nil {
			return err
		}
		if err := uc.publisher.Publish(txCtx, events.NewTransactionInitiated(tx)); err != nil {
			return fmt.Errorf("failed to publish TRANSACTION_INITIATED: %w", err)
		}

		entries, err := uc.buildDoubleEntry(txCtx, tx)
		if err != nil {
			return err
		}
		if err := entities.VerifyBalanced(entries); err != nil {
			return err
		}
		if err := uc.ledgerRepo.Append(txCtx, entries); err != nil {
			return err
		}

		if err := tx.MarkCompleted(); err != nil {
			return err
		}
		if err := uc.txRepo.Save(txCtx, tx); err != nil {
			return err
		}
		if err := uc.publisher.Publish(txCtx, events.NewTransactionCompleted(tx)); err != nil {
			return fmt.Errorf("failed to publish TRANSACTION_COMPLETED: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.IsConflict(err) {
			// Lost the idempotency-key race: serve the winner's row.
			if stored, ferr := uc.txRepo.FindByIdempotencyKey(ctx, tx.IdempotencyKey()); ferr == nil {
				dto := dtos.ToTransactionDTO(stored)
				return &dto, nil
			}
		}
		uc.recordFailure(ctx, tx, err)
		return nil, err
	}

	uc.logger.Info("transaction completed",
		"transaction_id", tx.ID(),
		"type", tx.Type(),
		"amount", tx.Amount().Decimal(),
	)

	dto := dtos.ToTransactionDTO(tx)
	return &dto, nil
}

// buildDoubleEntry locks the named wallets (ids ordered to avoid
// deadlocks), derives balance_before from the existing entries and
// produces the DEBIT+CREDIT pair.
func (uc *CommandUseCase) buildDoubleEntry(ctx context.Context, tx *entities.Transaction) ([]*entities.LedgerEntry, error) {
	endpoints := tx.WalletEndpoints()
	ordered := make([]uuid.UUID, len(endpoints))
	copy(ordered, endpoints)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].String() < ordered[j].String() })

	balances := make(map[uuid.UUID]valueobjects.Money, len(ordered))
	for _, walletID := range ordered {
		wallet, err := uc.walletRepo.LockByID(ctx, walletID)
		if err != nil {
			return nil, err
		}
		// Status may have changed since the read-only check.
		if !wallet.IsActive() {
			return nil, errors.ErrWalletNotActive
		}

		cents, err := uc.ledgerRepo.WalletBalance(ctx, walletID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum ledger balance: %w", err)
		}
		before, err := valueobjects.NewMoneyFromCents(cents, wallet.Currency())
		if err != nil {
			return nil, err
		}
		balances[walletID] = before
	}

	amount := tx.Amount()

	switch tx.Type() {
	case entities.TransactionTypeDeposit:
		to := *tx.ToWalletID()
		after, err := balances[to].Add(amount)
		if err != nil {
			return nil, err
		}
		debit, err := entities.NewCashEntry(tx.ID(), entities.EntryTypeDebit, amount)
		if err != nil {
			return nil, err
		}
		credit, err := entities.NewWalletEntry(tx.ID(), to, entities.EntryTypeCredit, amount, after)
		if err != nil {
			return nil, err
		}
		return []*entities.LedgerEntry{debit, credit}, nil

	case entities.TransactionTypeWithdrawal:
		from := *tx.FromWalletID()
		before := balances[from]
		covered, err := before.GreaterThanOrEqual(amount)
		if err != nil {
			return nil, err
		}
		if !covered {
			return nil, errors.ErrInsufficientBalance
		}
		after, err := before.Subtract(amount)
		if err != nil {
			return nil, err
		}
		debit, err := entities.NewWalletEntry(tx.ID(), from, entities.EntryTypeDebit, amount, after)
		if err != nil {
			return nil, err
		}
		credit, err := entities.NewCashEntry(tx.ID(), entities.EntryTypeCredit, amount)
		if err != nil {
			return nil, err
		}
		return []*entities.LedgerEntry{debit, credit}, nil

	case entities.TransactionTypeTransfer:
		from, to := *tx.FromWalletID(), *tx.ToWalletID()
		fromBefore := balances[from]
		covered, err := fromBefore.GreaterThanOrEqual(amount)
		if err != nil {
			return nil, err
		}
		if !covered {
			return nil, errors.ErrInsufficientBalance
		}
		fromAfter, err := fromBefore.Subtract(amount)
		if err != nil {
			return nil, err
		}
		toAfter, err := balances[to].Add(amount)
		if err != nil {
			return nil, err
		}
		debit, err := entities.NewWalletEntry(tx.ID(), from, entities.EntryTypeDebit, amount, fromAfter)
		if err != nil {
			return nil, err
		}
		credit, err := entities.NewWalletEntry(tx.ID(), to, entities.EntryTypeCredit, amount, toAfter)
		if err != nil {
			return nil, err
		}
		return []*entities.LedgerEntry{debit, credit}, nil
	}

	return nil, errors.ErrInvalidTransactionType
}

// recordFailure writes the FAILED row and TRANSACTION_FAILED in a fresh
// transaction after the command transaction rolled back.
func (uc *CommandUseCase) recordFailure(ctx context.Context, tx *entities.Transaction, cause error) {
	if err := tx.MarkFailed(cause.Error()); err != nil {
		uc.logger.Error("cannot mark transaction failed", "transaction_id", tx.ID(), "error", err)
		return
	}

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := uc.txRepo.Save(txCtx, tx); err != nil {
			return err
		}
		return uc.publisher.Publish(txCtx, events.NewTransactionFailed(tx))
	})
	if err != nil {
		uc.logger.Error("failed to record transaction failure", "transaction_id", tx.ID(), "error", err)
	}
}

func parseMoney(amount, currency string) (valueobjects.Money, error) {
	cur, err := valueobjects.NewCurrency(currency)
	if err != nil {
		return valueobjects.Money{}, errors.ValidationError{Field: "currency", Message: fmt.Sprintf("unsupported currency: %v", err)}
	}
	money, err := valueobjects.NewMoney(amount, cur)
	if err != nil {
		return valueobjects.Money{}, errors.ValidationError{Field: "amount", Message: fmt.Sprintf("invalid amount: %v", err)}
	}
	return money, nil
}

func parseWalletID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ValidationError{Field: field, Message: "invalid UUID format"}
	}
	return id, nil
}
