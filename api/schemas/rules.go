package schemas

// Severity classifies how a rule violation should be treated by callers.
// The values are lowercase to match the rule document format.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation is one finding produced by rule evaluation: which rule fired, how
// severe it is, which node is at fault, and a human-readable description.
// Violations are values; they are never persisted.
type Violation struct {
	Rule        string   `json:"rule"`
	Severity    Severity `json:"severity"`
	RefID       string   `json:"ref_id"`
	Description string   `json:"description"`
}
