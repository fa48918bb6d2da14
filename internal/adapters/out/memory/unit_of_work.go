package memory

import (
	"context"
	"errors"

	"fulfillment/internal/core/ports"
)

// ErrNoTransaction is returned by Commit and Rollback without a matching Begin.
var ErrNoTransaction = errors.New("no active transaction")

// UnitOfWorkFactory creates units of work sharing one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory over store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create produces a new unit of work. It must not be shared between goroutines.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork serialises a business transaction behind the store lock.
type UnitOfWork struct {
	store  *Store
	staged *changes
}

// Begin acquires the store lock, waiting for other units of work to finish.
// The wait is abandoned when ctx is done. Calling Begin twice is a no-op.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.staged != nil {
		return nil
	}

	locked := make(chan struct{})
	go func() {
		u.store.mu.Lock()
		close(locked)
	}()

	select {
	case <-locked:
		u.staged = newChanges()
		return nil
	case <-ctx.Done():
		// release the lock on behalf of the abandoned waiter once it gets it
		go func() {
			<-locked
			u.store.mu.Unlock()
		}()
		return ctx.Err()
	}
}

// Commit applies the staged writes and releases the store lock.
func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.staged == nil {
		return ErrNoTransaction
	}

	u.staged.applyTo(u.store)
	u.staged = nil
	u.store.mu.Unlock()
	return nil
}

// Rollback discards the staged writes and releases the store lock.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.staged == nil {
		return ErrNoTransaction
	}

	u.staged = nil
	u.store.mu.Unlock()
	return nil
}

// ItemRepository returns an ItemRepository bound to this unit of work.
func (u *UnitOfWork) ItemRepository() ports.ItemRepository {
	return &ItemRepository{uow: u}
}

// OrderRepository returns an OrderRepository bound to this unit of work.
func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: u}
}

// OperationRepository returns an OperationRepository bound to this unit of work.
func (u *UnitOfWork) OperationRepository() ports.OperationRepository {
	return &OperationRepository{uow: u}
}

// do runs fn against the transaction view, or under the store lock when no
// transaction is active.
func (u *UnitOfWork) do(fn func(v view) error) error {
	if u.staged != nil {
		return fn(view{store: u.store, staged: u.staged})
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	return fn(view{store: u.store})
}
