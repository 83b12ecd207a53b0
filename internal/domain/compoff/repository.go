package compoff

import "context"

type CompOffRepository interface {
	// List returns every entry, or one employee's when employeeID is set.
	List(ctx context.Context, employeeID string) ([]CompOff, error)
	Create(ctx context.Context, c CompOff) (CompOff, error)
	Update(ctx context.Context, c CompOff) (CompOff, error)
	Delete(ctx context.Context, id string) error
}
