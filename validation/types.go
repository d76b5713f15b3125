package validation

// BaseValidationResult contains the signature check shared by every signed artifact.
type BaseValidationResult struct {
	SignatureValid    bool
	ValidationDetails []string
}

// ExportValidationResult contains the checks run against a result export.
type ExportValidationResult struct {
	BaseValidationResult
	HashValid      bool // results hash recomputes
	SummaryValid   bool // counters and total spend match the rows
	ContractsValid bool // every sold row's years match the age x price table
	ItemsUnique    bool // no item appears twice
	BudgetsValid   bool // replayed spend and roster stay within each bidder's bounds
}

// ConsistencyValid reports whether the export is internally consistent, ignoring the signature.
func (r *ExportValidationResult) ConsistencyValid() bool {
	return r.HashValid && r.SummaryValid && r.ContractsValid && r.ItemsUnique && r.BudgetsValid
}

// IsValid returns true if the signature and every consistency check passed.
func (r *ExportValidationResult) IsValid() bool {
	return r.SignatureValid && r.ConsistencyValid()
}

func (r *BaseValidationResult) addDetail(detail string) {
	r.ValidationDetails = append(r.ValidationDetails, detail)
}
