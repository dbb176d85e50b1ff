package api

import (
	"context"

	"github.com/staffdesk/leavedesk-go/internal/domain/leave"
	"github.com/staffdesk/leavedesk-go/internal/pkg/remote"
)

// LeaveRepository reads and writes leave requests through the record-keeping
// service. Status transitions go through the dedicated approve/reject
// endpoints; there is no generic status write.
type LeaveRepository struct {
	client *remote.Client
}

func NewLeaveRepository(client *remote.Client) *LeaveRepository {
	return &LeaveRepository{client: client}
}

func (r *LeaveRepository) List(ctx context.Context) ([]leave.Record, error) {
	var recs []leave.Record
	if err := r.client.Get(ctx, "/leave-requests", &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *LeaveRepository) Create(ctx context.Context, rec leave.Record) (leave.Record, error) {
	payload := leave.SubmitRequest{StartDate: rec.StartDate, EndDate: rec.EndDate}
	var created leave.Record
	if err := r.client.Post(ctx, "/leave-requests", payload, &created); err != nil {
		return leave.Record{}, err
	}
	return created, nil
}

func (r *LeaveRepository) SetStatus(ctx context.Context, id string, status leave.Status) error {
	var path string
	switch status {
	case leave.StatusApproved:
		path = "/leave-requests/" + id + "/approve"
	case leave.StatusRejected:
		path = "/leave-requests/" + id + "/reject"
	default:
		return leave.ErrInvalidTargetStatus
	}
	return r.client.Post(ctx, path, nil, nil)
}
