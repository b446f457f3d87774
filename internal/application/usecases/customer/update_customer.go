package customer

import (
	"context"

	"github.com/finbridge/walletcore/internal/application/dtos"
	"github.com/finbridge/walletcore/internal/application/ports"
)

// UpdateCustomerUseCase serves PUT /customers/me with partial-update
// semantics: nil command fields keep their stored values.
type UpdateCustomerUseCase struct {
	customerRepo ports.CustomerRepository
	uow          ports.UnitOfWork
}

// NewUpdateCustomerUseCase wires the use case.
func NewUpdateCustomerUseCase(customerRepo ports.CustomerRepository, uow ports.UnitOfWork) *UpdateCustomerUseCase {
	return &UpdateCustomerUseCase{customerRepo: customerRepo, uow: uow}
}

// Execute applies the update.
func (uc *UpdateCustomerUseCase) Execute(ctx context.Context, cmd dtos.UpdateCustomerCommand) (*dtos.CustomerDTO, error) {
	var result *dtos.CustomerDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		customer, err := uc.customerRepo.FindByUserID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}

		if err := customer.UpdateProfile(cmd.FirstName, cmd.LastName, cmd.Phone, cmd.Address); err != nil {
			return err
		}

		if err := uc.customerRepo.Save(txCtx, customer); err != nil {
			return err
		}

		dto := dtos.ToCustomerDTO(customer)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
