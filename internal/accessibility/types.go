package accessibility

import "time"

// WCAGLevel represents different WCAG compliance levels.
type WCAGLevel string

const (
	WCAGLevelA  WCAGLevel = "A"
	WCAGLevelAA WCAGLevel = "AA"
)

// WCAGCriteria represents the specific WCAG success criteria.
type WCAGCriteria string

const (
	Criteria1_1_1 WCAGCriteria = "1.1.1" // Non-text Content
	Criteria1_3_1 WCAGCriteria = "1.3.1" // Info and Relationships
	Criteria2_4_1 WCAGCriteria = "2.4.1" // Bypass Blocks
	Criteria2_4_2 WCAGCriteria = "2.4.2" // Page Titled
	Criteria2_4_4 WCAGCriteria = "2.4.4" // Link Purpose (In Context)
	Criteria3_1_1 WCAGCriteria = "3.1.1" // Language of Page
	Criteria3_3_2 WCAGCriteria = "3.3.2" // Labels or Instructions
	Criteria4_1_1 WCAGCriteria = "4.1.1" // Parsing
	Criteria4_1_2 WCAGCriteria = "4.1.2" // Name, Role, Value
)

// WCAG names the guideline a rule enforces.
type WCAG struct {
	Level    WCAGLevel    `json:"level"`
	Criteria WCAGCriteria `json:"criteria"`
}

// ViolationSeverity represents the severity level of an accessibility violation.
type ViolationSeverity string

const (
	SeverityError   ViolationSeverity = "error"
	SeverityWarning ViolationSeverity = "warning"
	SeverityInfo    ViolationSeverity = "info"
)

// ViolationImpact represents the potential impact of an accessibility violation.
type ViolationImpact string

const (
	ImpactCritical ViolationImpact = "critical"
	ImpactSerious  ViolationImpact = "serious"
	ImpactModerate ViolationImpact = "moderate"
	ImpactMinor    ViolationImpact = "minor"
)

// Violation is a single accessibility issue found in a document.
type Violation struct {
	Rule       string            `json:"rule"`
	Severity   ViolationSeverity `json:"severity"`
	Impact     ViolationImpact   `json:"impact"`
	WCAG       WCAG              `json:"wcag"`
	Element    string            `json:"element"`
	Selector   string            `json:"selector"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	HelpURL    string            `json:"help_url"`
}

// Summary counts violations by severity and impact.
type Summary struct {
	TotalRules      int     `json:"total_rules"`
	PassedRules     int     `json:"passed_rules"`
	FailedRules     int     `json:"failed_rules"`
	TotalViolations int     `json:"total_violations"`
	ErrorViolations int     `json:"error_violations"`
	WarnViolations  int     `json:"warning_violations"`
	InfoViolations  int     `json:"info_violations"`
	CriticalImpact  int     `json:"critical_impact"`
	SeriousImpact   int     `json:"serious_impact"`
	ModerateImpact  int     `json:"moderate_impact"`
	MinorImpact     int     `json:"minor_impact"`
	OverallScore    float64 `json:"overall_score"`
}

// Report is the outcome of auditing one document.
type Report struct {
	Target     string        `json:"target"`
	Timestamp  time.Time     `json:"timestamp"`
	Duration   time.Duration `json:"duration"`
	Violations []Violation   `json:"violations"`
	Passed     []string      `json:"passed"`
	Summary    Summary       `json:"summary"`
}

// HasErrors reports whether any violation has error severity.
func (r *Report) HasErrors() bool {
	return r.Summary.ErrorViolations > 0
}
