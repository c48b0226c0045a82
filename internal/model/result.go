package model

// Validation status values carried on a GenerationResult.
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
)

// Violation records a single business-rule failure. Violations are data,
// never errors: rule checks collect them across the whole invoice instead
// of stopping at the first failure.
type Violation struct {
	RuleID  string `json:"ruleId"`
	Message string `json:"message"`
}

// ValidationResult aggregates the violations found by one profile run.
type ValidationResult struct {
	Valid   bool        `json:"valid"`
	Errors  []Violation `json:"errors"`
	Profile string      `json:"profile"`
}

// NewValidationResult folds a violation list into a result. A nil or empty
// list means the invoice passed the profile.
func NewValidationResult(profile string, violations []Violation) ValidationResult {
	return ValidationResult{
		Valid:   len(violations) == 0,
		Errors:  violations,
		Profile: profile,
	}
}

// GenerationResult is the packaged outcome of one conversion: the
// serialized document, its validation verdict, and file metadata. The
// caller decides whether to block delivery on a non-clean verdict.
type GenerationResult struct {
	XMLContent       []byte      `json:"xmlContent"`
	PDFContent       []byte      `json:"pdfContent,omitempty"`
	FileName         string      `json:"fileName"`
	FileSize         int         `json:"fileSize"`
	ValidationStatus string      `json:"validationStatus"`
	ValidationErrors []Violation `json:"validationErrors,omitempty"`
}
