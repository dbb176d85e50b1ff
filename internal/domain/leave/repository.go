package leave

import "context"

// Repository is the read/write surface over a leave-request collection, with
// a remote implementation and a mirror implementation composed by the
// records service. Create on the remote side lets the service assign the
// identifier; the mirror keeps whatever identifier the caller synthesized.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	SetStatus(ctx context.Context, id string, status Status) error
}
