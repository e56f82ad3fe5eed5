package repository

import "context"

// UnitOfWork runs fn in a single transaction. Repository calls made with the
// context handed to fn take part in it; any error returned by fn rolls the
// whole unit back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
