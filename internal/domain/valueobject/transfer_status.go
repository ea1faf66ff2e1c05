package valueobject

import "fmt"

// TransferStatus is the lifecycle state of a funds transfer.
type TransferStatus string

const (
	// TransferPending has not been handed to the payment rails yet.
	TransferPending TransferStatus = "PENDING"
	// TransferSubmitted was accepted by the payment rails.
	TransferSubmitted TransferStatus = "SUBMITTED"
	// TransferSimulated was recorded with a mock reference because the
	// payment rails could not be reached.
	TransferSimulated TransferStatus = "SIMULATED"
)

// TransferStatusFromString validates a stored status value.
func TransferStatusFromString(s string) (TransferStatus, error) {
	switch TransferStatus(s) {
	case TransferPending, TransferSubmitted, TransferSimulated:
		return TransferStatus(s), nil
	default:
		return "", fmt.Errorf("invalid transfer status: %q", s)
	}
}

func (s TransferStatus) String() string { return string(s) }
