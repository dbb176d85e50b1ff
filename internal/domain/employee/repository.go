package employee

import "context"

// Repository is the read/write surface over an employee collection. Two
// implementations exist: one backed by the remote record-keeping service and
// one backed by the local mirror; the records service composes them.
type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, emp Employee) (Employee, error)
	Update(ctx context.Context, id string, req SaveRequest) (Employee, error)
}
