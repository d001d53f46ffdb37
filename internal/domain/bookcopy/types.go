package bookcopy

// Status is the sole signal of a copy's lending availability.
type Status string

const (
	StatusMaintenance Status = "maintenance"
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusOnLoan      Status = "on_loan"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusMaintenance, StatusAvailable, StatusReserved, StatusOnLoan:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrUnknownStatus
	}
	return status, nil
}
