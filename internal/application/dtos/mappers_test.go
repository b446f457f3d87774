package dtos

import (
	"testing"

	"github.com/finbridge/walletcore/internal/domain/entities"
	"github.com/finbridge/walletcore/internal/domain/valueobjects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCustomerDTO(t *testing.T) {
	phone := "+254700000001"
	customer, err := entities.NewCustomer("subject-1", "Jane", "Wanjiku", "jane@example.com", &phone, nil)
	require.NoError(t, err)
	customer.SetID(7)

	dto := ToCustomerDTO(customer)

	assert.Equal(t, int64(7), dto.ID)
	assert.Equal(t, "subject-1", dto.UserID)
	assert.Equal(t, "Jane", dto.FirstName)
	assert.Equal(t, "Wanjiku", dto.LastName)
	assert.Equal(t, "jane@example.com", dto.Email)
	require.NotNil(t, dto.Phone)
	assert.Equal(t, phone, *dto.Phone)
	assert.Nil(t, dto.Address)
	assert.Equal(t, "ACTIVE", dto.Status)
}

func TestToKYCStatusDTO(t *testing.T) {
	check, err := entities.NewKYCCheck(1, map[string]string{"idFront": "x"})
	require.NoError(t, err)

	dto := ToKYCStatusDTO(check)
	assert.Equal(t, "IN_PROGRESS", dto.Status)
	assert.Nil(t, dto.VerifiedAt)
	assert.Empty(t, dto.RejectionReason)
}

func TestPendingKYCStatusDTO(t *testing.T) {
	dto := PendingKYCStatusDTO()
	assert.Equal(t, "PENDING", dto.Status)
}

func TestToWalletDTO(t *testing.T) {
	wallet, err := entities.NewWallet(3, valueobjects.KES)
	require.NoError(t, err)

	dto := ToWalletDTO(wallet)

	assert.Equal(t, wallet.ID().String(), dto.ID)
	assert.Equal(t, int64(3), dto.CustomerID)
	assert.Equal(t, "KES", dto.Currency)
	assert.Equal(t, "ACTIVE", dto.Status)
	assert.Equal(t, "0.00", dto.Balance)
	assert.Equal(t, "100000.00", dto.DailyLimit)
	assert.Equal(t, "1000000.00", dto.MonthlyLimit)
}

func TestToTransactionDTO(t *testing.T) {
	amount, err := valueobjects.NewMoney("150.00", valueobjects.KES)
	require.NoError(t, err)

	t.Run("deposit has only a destination", func(t *testing.T) {
		to := uuid.New()
		tx, err := entities.NewDeposit(to, amount, "dep-1")
		require.NoError(t, err)

		dto := ToTransactionDTO(tx)

		assert.Equal(t, "DEPOSIT", dto.TransactionType)
		assert.Equal(t, "PENDING", dto.Status)
		assert.Equal(t, "150.00", dto.Amount)
		assert.Equal(t, "KES", dto.Currency)
		assert.Nil(t, dto.FromWalletID)
		require.NotNil(t, dto.ToWalletID)
		assert.Equal(t, to.String(), *dto.ToWalletID)
		assert.Nil(t, dto.CompletedAt)
	})

	t.Run("transfer carries both endpoints", func(t *testing.T) {
		from, to := uuid.New(), uuid.New()
		tx, err := entities.NewTransfer(from, to, amount, "tr-1")
		require.NoError(t, err)
		require.NoError(t, tx.MarkCompleted())

		dto := ToTransactionDTO(tx)

		require.NotNil(t, dto.FromWalletID)
		require.NotNil(t, dto.ToWalletID)
		assert.Equal(t, "COMPLETED", dto.Status)
		assert.NotNil(t, dto.CompletedAt)
	})
}

func TestNewPaginationDTO(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		total      int64
		wantPages  int
		wantNext   bool
		wantPrev   bool
	}{
		{"first of many", 0, 20, 45, 3, true, false},
		{"middle page", 1, 20, 45, 3, true, true},
		{"last page", 2, 20, 45, 3, false, true},
		{"empty result", 0, 20, 0, 0, false, false},
		{"exact fit", 0, 20, 20, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto := NewPaginationDTO(tt.page, tt.size, tt.total)
			assert.Equal(t, tt.wantPages, dto.TotalPages)
			assert.Equal(t, tt.wantNext, dto.HasNext)
			assert.Equal(t, tt.wantPrev, dto.HasPrevious)
			assert.Equal(t, tt.total, dto.TotalElements)
		})
	}
}
