package ledger

import (
	"context"
	"errors"
)

// Errors returned by ledger operations.
var (
	// ErrValidation means a required field was missing or invalid. State is unchanged.
	ErrValidation = errors.New("validation failed")
	// ErrCategoryInUse means a category still has transactions referencing it.
	ErrCategoryInUse = errors.New("category is in use")
	// ErrMalformedImport means an import document could not be parsed. State is unchanged.
	ErrMalformedImport = errors.New("malformed import data")
	// ErrPersistence means the store rejected a write. The in-memory change is kept.
	ErrPersistence = errors.New("failed to save data")
	// ErrCancelled means the user declined a confirmation.
	ErrCancelled = errors.New("operation cancelled")
)

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})

// Reported tells whether the ledger already notified the user about err.
func Reported(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrCategoryInUse) ||
		errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrMalformedImport)
}
