package dto

// SaveOutcome reports the result of a batch record save after duplicate
// filtering. NothingNew is set when every candidate was filtered out as a
// duplicate and no override was requested.
type SaveOutcome struct {
	SavedRecordIDs []string `json:"savedRecordIds"`
	DuplicateCount int      `json:"duplicateCount"`
	NothingNew     bool     `json:"nothingNew"`
}
