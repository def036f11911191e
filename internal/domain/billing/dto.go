// internal/domain/billing/dto.go
package billing

type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
	ActionFailed  SyncAction = "failed"
)

// SyncOutcome is the result of mirroring one local record.
type SyncOutcome struct {
	LocalID  int64      `json:"local_id"`
	Ref      string     `json:"ref"`
	Action   SyncAction `json:"action"`
	RemoteID int64      `json:"remote_id,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type SyncReport struct {
	Kind     string        `json:"kind"` // plans | users
	Total    int           `json:"total"`
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Failed   int           `json:"failed"`
	Outcomes []SyncOutcome `json:"outcomes"`
}

func (r *SyncReport) Add(o SyncOutcome) {
	r.Total++
	switch o.Action {
	case ActionCreated:
		r.Created++
	case ActionUpdated:
		r.Updated++
	case ActionFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Acquirer is a payment method offered by the billing system at checkout.
type Acquirer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	State string `json:"state"`
}
