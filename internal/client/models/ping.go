package models

import "time"

// PingStatus is the lock verdict for a wiki.
type PingStatus struct {
	// Editable is true when the server answered 204: nobody holds the lock.
	Editable     bool
	RegisteredAt time.Time
	UserID       int
}

// RemainingMinutes is how many whole minutes remain until a lock registered
// at RegisteredAt lapses, given the lock window: window − floor(elapsed),
// never negative.
func (p PingStatus) RemainingMinutes(now time.Time, window time.Duration) int {
	elapsed := int(now.Sub(p.RegisteredAt) / time.Minute)
	left := int(window/time.Minute) - elapsed
	if left < 0 {
		return 0
	}
	return left
}

type PingRequest struct {
	SecurityAnswer string `json:"securityAnswer"`
}

type PingResponse struct {
	RegisteredAt time.Time `json:"registeredAt"`
	UserID       int       `json:"userId"`
}
