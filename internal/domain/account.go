package domain

// AccountKind differentiates admin vs student records in events and storage keys.
type AccountKind string

const (
	AccountKindAdmin   AccountKind = "admin"
	AccountKindStudent AccountKind = "student"
)
