package entity

// KindTimeline entities are always children of a user key.
const KindTimeline = "timeline"

// Timeline is one trip entry owned by a user.
// Time is opaque to the backend: whatever scalar the client sent is kept.
type Timeline struct {
	ID          int64
	UserID      int64
	Origin      string
	Destination string
	Time        any
	Sub         bool
}
