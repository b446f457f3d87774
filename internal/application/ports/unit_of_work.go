package ports

import "context"

// UnitOfWork draws transaction boundaries around multi-step operations.
// One Execute call is one database transaction: the function runs inside
// it, a returned error rolls everything back, nil commits.
//
// The context passed to fn carries the transaction. Repository calls inside
// fn must use that context, not the outer one:
//
//	err := uow.Execute(ctx, func(txCtx context.Context) error {
//	    wallet, err := wallets.LockByID(txCtx, walletID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := wallet.ApplyCredit(amount); err != nil {
//	        return err
//	    }
//	    return wallets.Save(txCtx, wallet)
//	})
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(context.Context) error) error

	// ExecuteWithResult is Execute for operations that produce a value.
	ExecuteWithResult(ctx context.Context, fn func(context.Context) (interface{}, error)) (interface{}, error)

	// ExecuteWithRetry re-runs fn in a fresh transaction when the store
	// reports a transient conflict, up to maxRetries extra attempts.
	ExecuteWithRetry(ctx context.Context, maxRetries int, fn func(context.Context) error) error
}
