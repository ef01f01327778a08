package types

// IncidentStatus represents the status of an incident
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigation IncidentStatus = "investigation"
	IncidentStatusReview        IncidentStatus = "review"
	IncidentStatusClosed        IncidentStatus = "closed"
)

// String returns the string representation of the status
func (s IncidentStatus) String() string {
	return string(s)
}

// IsValid checks if the status is valid
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusOpen, IncidentStatusInvestigation, IncidentStatusReview, IncidentStatusClosed:
		return true
	default:
		return false
	}
}

// IsActive returns true for statuses that still need attention.
// Open, investigation and review all count toward the open-incident penalty.
func (s IncidentStatus) IsActive() bool {
	switch s {
	case IncidentStatusOpen, IncidentStatusInvestigation, IncidentStatusReview:
		return true
	default:
		return false
	}
}
