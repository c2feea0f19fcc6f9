package bp

import "sort"

// Issue reasons.
const (
	ReasonUnknownCode = "unknown_code"
	ReasonNotDecimal  = "not_decimal"
)

// Issue is a value the mapper kept as-is but could not normalize.
type Issue struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Diagnostics travels next to a mapping result. The result itself is always
// complete; Diagnostics only tells what was defaulted or left untouched.
type Diagnostics struct {
	// Malformed is set when the input was not valid JSON and was read as {}.
	Malformed bool `json:"malformed,omitempty"`
	// Absent lists flat fields whose source key did not exist.
	Absent []string `json:"absent,omitempty"`
	Issues []Issue  `json:"issues,omitempty"`
}

func (d *Diagnostics) absent(name string) {
	if d == nil {
		return
	}
	d.Absent = append(d.Absent, name)
}

func (d *Diagnostics) unknown(field, value string) {
	d.issue(field, value, ReasonUnknownCode)
}

func (d *Diagnostics) issue(field, value, reason string) {
	if d == nil {
		return
	}
	d.Issues = append(d.Issues, Issue{Field: field, Value: value, Reason: reason})
}

// IsAbsent reports whether name had no source key.
func (d Diagnostics) IsAbsent(name string) bool {
	for _, a := range d.Absent {
		if a == name {
			return true
		}
	}
	return false
}

func (d Diagnostics) HasIssues() bool { return d.Malformed || len(d.Issues) > 0 }

// UnknownCodes returns the issues of kind unknown_code.
func (d Diagnostics) UnknownCodes() []Issue {
	var out []Issue
	for _, is := range d.Issues {
		if is.Reason == ReasonUnknownCode {
			out = append(out, is)
		}
	}
	return out
}

// Reasons lists one reason per issue, plus "malformed" when the input was
// not JSON. Used as metric labels.
func (d Diagnostics) Reasons() []string {
	var out []string
	if d.Malformed {
		out = append(out, "malformed")
	}
	for _, is := range d.Issues {
		out = append(out, is.Reason)
	}
	return out
}

func (d *Diagnostics) sortAbsent() {
	sort.Strings(d.Absent)
}
