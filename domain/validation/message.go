// Package validation checks a draft's effective ontology for structural
// problems. Validation findings are data, not errors: a run returns a list of
// structured messages and only infrastructure failures surface as errors.
// Runs are pure reads and repeatable.
package validation

// Severity grades a validation message. Only error-severity messages block
// submission; warnings and infos never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message codes.
const (
	CodeUnresolvedReference = "unresolved_reference"
	CodeInheritanceCycle    = "inheritance_cycle"
	CodeMalformedBody       = "malformed_body"
	CodePatchUnapplied      = "patch_unapplied"
	CodeDatatypeChange      = "datatype_change"
	CodeCardinalityNarrowed = "cardinality_narrowed"
	CodeReferencedRemoved   = "referenced_entity_removed"
	CodeMemberRemoved       = "member_removed"
)

// Message is one validation finding, addressed to an entity and field.
type Message struct {
	EntityKey string   `json:"entity_key"`
	FieldPath string   `json:"field_path,omitempty"`
	Severity  Severity `json:"severity"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
}

// HasErrors reports whether any message is error severity.
func HasErrors(messages []Message) bool {
	for _, m := range messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}
