package enums

import "fmt"

// EstimateStatus tracks the lifecycle state of an estimate.
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "Draft"
	EstimateStatusSent     EstimateStatus = "Sent"
	EstimateStatusApproved EstimateStatus = "Approved"
	EstimateStatusRejected EstimateStatus = "Rejected"
	EstimateStatusExpired  EstimateStatus = "Expired"
)

var validEstimateStatuses = []EstimateStatus{
	EstimateStatusDraft,
	EstimateStatusSent,
	EstimateStatusApproved,
	EstimateStatusRejected,
	EstimateStatusExpired,
}

// String implements fmt.Stringer.
func (s EstimateStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EstimateStatus.
func (s EstimateStatus) IsValid() bool {
	for _, candidate := range validEstimateStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEstimateStatus converts raw input into an EstimateStatus.
func ParseEstimateStatus(value string) (EstimateStatus, error) {
	for _, candidate := range validEstimateStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid estimate status %q", value)
}
