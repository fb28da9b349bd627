// Package finding defines the report produced by the terraform-guardrail scanner.
// Fields the scanner may omit are kept as nil pointers so that defaults are
// applied only where the reports are encoded.
package finding

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	UnknownRuleID = "UNKNOWN"
)

// Finding is a single policy violation reported by the scanner.
type Finding struct {
	RuleID   *string `json:"rule_id,omitempty"`
	Severity *string `json:"severity,omitempty"`
	Message  *string `json:"message,omitempty"`
	Path     *string `json:"path,omitempty"`
}

// Report is the JSON document the scanner prints with `--format json`.
// Only findings are decoded. Other keys such as summary and detail are
// ignored whatever their types are.
type Report struct {
	Findings []Finding `json:"findings"`
}

// RuleIDOrUnknown returns the rule id, or UNKNOWN when the scanner didn't set one.
func (f *Finding) RuleIDOrUnknown() string {
	if f.RuleID == nil || *f.RuleID == "" {
		return UnknownRuleID
	}
	return *f.RuleID
}

func (f *Finding) MessageText() string {
	if f.Message == nil {
		return ""
	}
	return *f.Message
}

// PathText returns the file path of the finding. An empty string means the
// finding has no location.
func (f *Finding) PathText() string {
	if f.Path == nil {
		return ""
	}
	return *f.Path
}

// IsLow reports whether the severity is exactly "low".
// A missing or unrecognized severity is not low.
func (f *Finding) IsLow() bool {
	return f.Severity != nil && *f.Severity == SeverityLow
}

// ParseReport decodes the scanner's stdout.
// Empty output is treated as an empty report.
func ParseReport(b []byte) (*Report, error) {
	report := &Report{}
	if len(bytes.TrimSpace(b)) == 0 {
		report.Findings = []Finding{}
		return report, nil
	}
	if err := json.Unmarshal(b, report); err != nil {
		return nil, fmt.Errorf("parse the scanner output as JSON: %w", err)
	}
	if report.Findings == nil {
		report.Findings = []Finding{}
	}
	return report, nil
}

// Count tallies findings per severity. Findings without a recognized
// severity are counted as Other.
type Count struct {
	High   int
	Medium int
	Low    int
	Other  int
}

func CountBySeverity(findings []Finding) *Count {
	c := &Count{}
	for _, f := range findings {
		if f.Severity == nil {
			c.Other++
			continue
		}
		switch *f.Severity {
		case SeverityHigh:
			c.High++
		case SeverityMedium:
			c.Medium++
		case SeverityLow:
			c.Low++
		default:
			c.Other++
		}
	}
	return c
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}
