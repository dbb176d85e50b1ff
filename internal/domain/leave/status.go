package leave

import "strings"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// CanonicalStatus collapses the historical status shapes into one value.
// Precedence: an explicit APPROVED/REJECTED status string wins regardless of
// the boolean; otherwise a true approved flag means APPROVED; everything
// else is PENDING. Legacy boolean-only records and current enum records must
// be indistinguishable downstream, so this ordering is fixed.
func CanonicalStatus(rec Record) Status {
	switch strings.ToUpper(strings.TrimSpace(rec.Status)) {
	case string(StatusApproved):
		return StatusApproved
	case string(StatusRejected):
		return StatusRejected
	}
	if rec.Approved {
		return StatusApproved
	}
	return StatusPending
}

func IsPending(rec Record) bool {
	return CanonicalStatus(rec) == StatusPending
}

// Normalize converts a raw record into its canonical form. TotalDays is
// recomputed from the dates when the stored value is absent.
func Normalize(rec Record) Request {
	total := rec.TotalDays
	if total == 0 {
		total = TotalDays(rec.StartDate, rec.EndDate)
	}
	return Request{
		RequestID:    rec.RequestID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		StartDate:    rec.StartDate,
		EndDate:      rec.EndDate,
		TotalDays:    total,
		Status:       CanonicalStatus(rec),
	}
}

// NormalizeAll reconciles a whole collection, preserving order.
func NormalizeAll(recs []Record) []Request {
	out := make([]Request, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Normalize(rec))
	}
	return out
}

// PendingQueue is the stable subsequence of the collection still awaiting an
// admin decision, in the collection's original order.
func PendingQueue(recs []Record) []Request {
	var out []Request
	for _, rec := range recs {
		if IsPending(rec) {
			out = append(out, Normalize(rec))
		}
	}
	return out
}
