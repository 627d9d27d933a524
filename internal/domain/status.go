package domain

type VerdictStatus string
type ReputationStatus string

const (
	VerdictSafe       VerdictStatus = "safe"
	VerdictSuspicious VerdictStatus = "suspicious"
	VerdictMalicious  VerdictStatus = "malicious"
)

const (
	ReputationClean     ReputationStatus = "clean"
	ReputationFlagged   ReputationStatus = "flagged"
	ReputationNotFound  ReputationStatus = "not_found"
	ReputationSubmitted ReputationStatus = "submitted"
	ReputationError     ReputationStatus = "error"
)
