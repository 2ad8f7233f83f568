package domain

// SingletonLotID id единственной строки parking_lot
const SingletonLotID int64 = 1

// Business validation constants
const (
	MaxLicensePlateLength = 16
	MaxParkingSpotLength  = 16
)

// Session listing limits
const (
	DefaultSessionsLimit = 50
	MaxSessionsLimit     = 500
)

// Overflow policies applied when releasing a spot would exceed total capacity
const (
	OverflowPolicyReject = "reject"
	OverflowPolicyClamp  = "clamp"
)
