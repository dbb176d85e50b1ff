package leave

import "encoding/json"

// Record is a leave request as stored or transmitted. The status arrived in
// three historical shapes across backend revisions: a human-cased string
// ("Pending"), an upper-case string paired with a boolean, or nothing but
// the boolean. Readers must tolerate all three within one collection; only
// the reconciler collapses them.
type Record struct {
	RequestID    string `json:"requestId"`
	EmployeeID   string `json:"employeeId,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	TotalDays    int    `json:"totalDays,omitempty"`
	Status       string `json:"status,omitempty"`
	Approved     bool   `json:"approved,omitempty"`
}

type wireRecord struct {
	RequestID    flexID `json:"requestId"`
	RequestID2   flexID `json:"requestID"`
	LegacyID     flexID `json:"id"`
	EmployeeID   flexID `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	TotalDays    int    `json:"totalDays"`
	Status       string `json:"status"`
	Approved     bool   `json:"approved"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := string(w.RequestID)
	if id == "" {
		id = string(w.RequestID2)
	}
	if id == "" {
		id = string(w.LegacyID)
	}
	*r = Record{
		RequestID:    id,
		EmployeeID:   string(w.EmployeeID),
		EmployeeName: w.EmployeeName,
		StartDate:    w.StartDate,
		EndDate:      w.EndDate,
		TotalDays:    w.TotalDays,
		Status:       w.Status,
		Approved:     w.Approved,
	}
	return nil
}

type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = flexID(n.String())
	return nil
}

// Request is a leave request after reconciliation. Its Status is always one
// of the canonical values; raw shapes do not travel past the records
// service.
type Request struct {
	RequestID    string `json:"requestId"`
	EmployeeID   string `json:"employeeId,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	TotalDays    int    `json:"totalDays"`
	Status       Status `json:"status"`
}
