package kyc

import (
	"context"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
	"github.com/finbridge/walletcore/internal/domain/errors"
)

// GetStatusUseCase answers GET /customers/me/kyc/status. A customer with
// no KYC record reports PENDING.
type GetStatusUseCase struct {
	customerRepo ports.CustomerRepository
	kycRepo      ports.KYCRepository
}

// NewGetStatusUseCase wires the use case.
func NewGetStatusUseCase(customerRepo ports.CustomerRepository, kycRepo ports.KYCRepository) *GetStatusUseCase {
	return &GetStatusUseCase{customerRepo: customerRepo, kycRepo: kycRepo}
}

// Execute reports the caller's verification status.
func (uc *GetStatusUseCase) Execute(ctx context.Context, userID string) (*dtos.KYCStatusDTO, error) {
	customerID, err := uc.customerRepo.ResolveCustomerID(ctx, userID)
	if err != nil {
		return nil, err
	}

	check, err := uc.kycRepo.FindLatestByCustomer(ctx, customerID)
	if err != nil {
		if errors.IsNotFound(err) {
			dto := dtos.PendingKYCStatusDTO()
			return &dto, nil
		}
		return nil, err
	}

	dto := dtos.ToKYCStatusDTO(check)
	return &dto, nil
}
