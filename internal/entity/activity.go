package entity

// ActivityLog is one append-only fact about a user action. Timestamp is kept
// as the ISO-8601 string written at insert time; entries are never updated.
type ActivityLog struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Activity  string `db:"activity" json:"activity"`
	Timestamp string `db:"timestamp" json:"timestamp"`
}
