package customer

import (
	"context"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
)

// GetCustomerUseCase serves GET /customers/me.
type GetCustomerUseCase struct {
	customerRepo ports.CustomerRepository
}

// NewGetCustomerUseCase wires the use case.
func NewGetCustomerUseCase(customerRepo ports.CustomerRepository) *GetCustomerUseCase {
	return &GetCustomerUseCase{customerRepo: customerRepo}
}

// Execute loads the caller's profile. Missing profiles surface as
// ErrCustomerNotFound.
func (uc *GetCustomerUseCase) Execute(ctx context.Context, userID string) (*dtos.CustomerDTO, error) {
	customer, err := uc.customerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := dtos.ToCustomerDTO(customer)
	return &dto, nil
}
