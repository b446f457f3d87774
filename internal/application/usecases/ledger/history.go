package ledger

import (
	"context"
	"time"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/errors"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// HistoryUseCase serves the per-wallet transaction history with
// filtering, sorting and pagination. Only the wallet owner may read it.
type HistoryUseCase struct {
	customerRepo ports.CustomerRepository
	walletRepo   ports.WalletRepository
	txRepo       ports.TransactionRepository
}

func NewHistoryUseCase(
	customerRepo ports.CustomerRepository,
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
) *HistoryUseCase {
	return &HistoryUseCase{
		customerRepo: customerRepo,
		walletRepo:   walletRepo,
		txRepo:       txRepo,
	}
}

func (uc *HistoryUseCase) Execute(ctx context.Context, query dtos.TransactionHistoryQuery) (*dtos.TransactionHistoryDTO, error) {
	walletID, err := parseWalletID("wallet_id", query.WalletID)
	if err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.FindByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	customerID, err := uc.customerRepo.ResolveCustomerID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if wallet.CustomerID() != customerID {
		return nil, errors.ErrNotWalletOwner
	}

	filter, err := buildFilter(walletID, query)
	if err != nil {
		return nil, err
	}
	sort := buildSort(query)

	page := query.Page
	if page < 0 {
		page = 0
	}
	size := query.Size
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	transactions, err := uc.txRepo.List(ctx, filter, sort, page*size, size)
	if err != nil {
		return nil, err
	}
	total, err := uc.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dtos.TransactionHistoryDTO{
		Transactions: dtos.ToTransactionDTOList(transactions),
		Pagination:   dtos.NewPaginationDTO(page, size, total),
	}, nil
}

func buildFilter(walletID uuid.UUID, query dtos.TransactionHistoryQuery) (ports.TransactionFilter, error) {
	filter := ports.TransactionFilter{WalletID: &walletID}

	if query.Status != "" {
		status := entities.TransactionStatus(query.Status)
		filter.Status = &status
	}
	if query.TransactionType != "" {
		txType := entities.TransactionType(query.TransactionType)
		filter.Type = &txType
	}
	if query.FromDate != "" {
		from, err := parseDate(query.FromDate)
		if err != nil {
			return filter, errors.ValidationError{Field: "fromDate", Message: "expected RFC3339 or YYYY-MM-DD"}
		}
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, err := parseDate(query.ToDate)
		if err != nil {
			return filter, errors.ValidationError{Field: "toDate", Message: "expected RFC3339 or YYYY-MM-DD"}
		}
		filter.ToDate = &to
	}
	return filter, nil
}

func buildSort(query dtos.TransactionHistoryQuery) ports.TransactionSort {
	field := query.SortBy
	if field == "" {
		field = "initiatedAt"
	}
	// Newest first unless the caller asked otherwise.
	return ports.TransactionSort{Field: field, Desc: query.SortDirection != "asc"}
}

func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
