package models

// ImportOptions controls how a bulk import treats rows that fail normalization.
type ImportOptions struct {
	// SkipInvalid stores the valid rows and reports the rest; otherwise one bad row aborts the batch.
	SkipInvalid bool
}

// RowError describes one rejected import row
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult is returned by a bulk import
type ImportResult struct {
	BatchID  string         `json:"batch_id"`
	Created  []*Transaction `json:"created"`
	Rejected []RowError     `json:"rejected"`
}
