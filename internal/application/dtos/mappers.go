// Mappers convert domain entities into API DTOs. Domain objects never
// cross the HTTP boundary directly.
package dtos

import (
	"github.com/finbridge/walletcore/internal/domain/entities"
)

// ============================================
// Customer mappers
// ============================================

// ToCustomerDTO converts a Customer entity into its API representation.
func ToCustomerDTO(customer *entities.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        customer.ID(),
		UserID:    customer.UserID(),
		FirstName: customer.FirstName(),
		LastName:  customer.LastName(),
		Email:     customer.Email(),
		Phone:     customer.Phone(),
		Address:   customer.Address(),
		Status:    string(customer.Status()),
		CreatedAt: customer.CreatedAt(),
		UpdatedAt: customer.UpdatedAt(),
	}
}

// ToKYCStatusDTO converts a KYC check into the status-query response.
func ToKYCStatusDTO(check *entities.KYCCheck) KYCStatusDTO {
	return KYCStatusDTO{
		Status:          string(check.Status()),
		VerifiedAt:      check.VerifiedAt(),
		RejectionReason: check.RejectionReason(),
	}
}

// PendingKYCStatusDTO is the response when no KYC record exists yet.
func PendingKYCStatusDTO() KYCStatusDTO {
	return KYCStatusDTO{Status: string(entities.KYCStatusPending)}
}

// ============================================
// Wallet mappers
// ============================================

// ToWalletDTO converts a Wallet entity into its API representation.
func ToWalletDTO(wallet *entities.Wallet) WalletDTO {
	return WalletDTO{
		ID:           wallet.ID().String(),
		CustomerID:   wallet.CustomerID(),
		Currency:     wallet.Currency().Code(),
		Status:       string(wallet.Status()),
		Balance:      wallet.Balance().Decimal(),
		DailyLimit:   wallet.DailyLimit().Decimal(),
		MonthlyLimit: wallet.MonthlyLimit().Decimal(),
		CreatedAt:    wallet.CreatedAt(),
		UpdatedAt:    wallet.UpdatedAt(),
	}
}

// ToWalletDTOList converts a wallet slice.
func ToWalletDTOList(wallets []*entities.Wallet) []WalletDTO {
	result := make([]WalletDTO, len(wallets))
	for i, wallet := range wallets {
		result[i] = ToWalletDTO(wallet)
	}
	return result
}

// ============================================
// Transaction mappers
// ============================================

// ToTransactionDTO converts a Transaction entity into its API
// representation. Endpoint fields stay null when the transaction type has
// no wallet on that side.
func ToTransactionDTO(tx *entities.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:              tx.ID().String(),
		TransactionType: string(tx.Type()),
		Status:          string(tx.Status()),
		Amount:          tx.Amount().Decimal(),
		Currency:        tx.Amount().Currency().Code(),
		IdempotencyKey:  tx.IdempotencyKey(),
		FailureReason:   tx.FailureReason(),
		InitiatedAt:     tx.InitiatedAt(),
		CompletedAt:     tx.CompletedAt(),
	}

	if from := tx.FromWalletID(); from != nil {
		s := from.String()
		dto.FromWalletID = &s
	}
	if to := tx.ToWalletID(); to != nil {
		s := to.String()
		dto.ToWalletID = &s
	}

	return dto
}

// ToTransactionDTOList converts a transaction slice.
func ToTransactionDTOList(transactions []*entities.Transaction) []TransactionDTO {
	result := make([]TransactionDTO, len(transactions))
	for i, tx := range transactions {
		result[i] = ToTransactionDTO(tx)
	}
	return result
}

// NewPaginationDTO derives page metadata from a total count.
func NewPaginationDTO(page, size int, total int64) PaginationDTO {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PaginationDTO{
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		HasNext:       page+1 < totalPages,
		HasPrevious:   page > 0 && total > 0,
	}
}
