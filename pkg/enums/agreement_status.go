package enums

import "fmt"

// AgreementStatus represents the lifecycle states of a rental agreement.
type AgreementStatus string

const (
	AgreementStatusPending    AgreementStatus = "pending"
	AgreementStatusConfirmed  AgreementStatus = "confirmed"
	AgreementStatusInProgress AgreementStatus = "in_progress"
	AgreementStatusCompleted  AgreementStatus = "completed"
	AgreementStatusOverdue    AgreementStatus = "overdue"
	AgreementStatusCancelled  AgreementStatus = "cancelled"
)

var validAgreementStatuses = []AgreementStatus{
	AgreementStatusPending,
	AgreementStatusConfirmed,
	AgreementStatusInProgress,
	AgreementStatusCompleted,
	AgreementStatusOverdue,
	AgreementStatusCancelled,
}

// String implements fmt.Stringer.
func (s AgreementStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AgreementStatus.
func (s AgreementStatus) IsValid() bool {
	for _, candidate := range validAgreementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// OccupiesStock reports whether agreements in this status count against
// available inventory. Only cancelled agreements release their units.
func (s AgreementStatus) OccupiesStock() bool {
	return s != AgreementStatusCancelled
}

// IsActive reports whether the agreement is still in flight.
func (s AgreementStatus) IsActive() bool {
	switch s {
	case AgreementStatusPending, AgreementStatusConfirmed, AgreementStatusInProgress, AgreementStatusOverdue:
		return true
	}
	return false
}

// ParseAgreementStatus converts raw input into an AgreementStatus.
func ParseAgreementStatus(value string) (AgreementStatus, error) {
	for _, candidate := range validAgreementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid agreement status %q", value)
}
