package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/pkg/statestore"
)

const leaveRequestsCollection = "leaveRequests"

// LeaveRepository serves the leave-request collection from the local mirror.
// Records keep whatever status shape they were written with; reconciliation
// happens above this layer.
type LeaveRepository struct {
	store *statestore.Store
	mu    sync.Mutex
}

func NewLeaveRepository(store *statestore.Store) *LeaveRepository {
	return &LeaveRepository{store: store}
}

func (r *LeaveRepository) List(ctx context.Context) ([]leave.Record, error) {
	raw, err := r.store.ReadCollection(ctx, leaveRequestsCollection)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []leave.Record{}, nil
	}
	var recs []leave.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("mirror: decode leave requests: %w", err)
	}
	return recs, nil
}

func (r *LeaveRepository) Create(ctx context.Context, rec leave.Record) (leave.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.List(ctx)
	if err != nil {
		return leave.Record{}, err
	}
	if rec.RequestID == "" {
		rec.RequestID = "req-" + uuid.NewString()
	}
	recs = append(recs, rec)
	if err := r.replaceLocked(ctx, recs); err != nil {
		return leave.Record{}, err
	}
	return rec, nil
}

func (r *LeaveRepository) SetStatus(ctx context.Context, id string, status leave.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i].RequestID != id {
			continue
		}
		recs[i].Status = string(status)
		recs[i].Approved = status == leave.StatusApproved
		return r.replaceLocked(ctx, recs)
	}
	return leave.ErrLeaveRequestNotFound
}

// Replace swaps in a whole snapshot. Used by the seed fixtures.
func (r *LeaveRepository) Replace(ctx context.Context, recs []leave.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replaceLocked(ctx, recs)
}

func (r *LeaveRepository) replaceLocked(ctx context.Context, recs []leave.Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("mirror: encode leave requests: %w", err)
	}
	return r.store.WriteCollection(ctx, leaveRequestsCollection, data)
}
