package sarif

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/guardrail-ci/guardrail-task/pkg/finding"
)

const (
	Version        = "2.1.0"
	Schema         = "https://json.schemastore.org/sarif-2.1.0.json"
	ToolName       = "Terraform Guardrail MCP"
	InformationURI = "https://github.com/Huzefaaa2/terraform-guardrail"

	LevelError   = "error"
	LevelWarning = "warning"
	LevelNote    = "note"
)

// Level maps a scanner severity to a SARIF result level.
// Anything other than high or medium, including a missing severity, is a note.
func Level(severity *string) string {
	if severity == nil {
		return LevelNote
	}
	switch *severity {
	case finding.SeverityHigh:
		return LevelError
	case finding.SeverityMedium:
		return LevelWarning
	default:
		return LevelNote
	}
}

// Encode builds a SARIF log with one run. Rules are listed once each, in the
// order their ids first appear; results keep the order of findings.
func Encode(findings []finding.Finding) *Log {
	rules := make([]Rule, 0, len(findings))
	seen := make(map[string]struct{}, len(findings))
	results := make([]Result, 0, len(findings))
	for i := range findings {
		f := &findings[i]
		ruleID := f.RuleIDOrUnknown()
		if _, ok := seen[ruleID]; !ok {
			seen[ruleID] = struct{}{}
			rules = append(rules, Rule{ID: ruleID, Name: ruleID})
		}
		result := Result{
			RuleID:  ruleID,
			Level:   Level(f.Severity),
			Message: Message{Text: f.MessageText()},
		}
		if p := f.PathText(); p != "" {
			result.Locations = []Location{
				{
					PhysicalLocation: PhysicalLocation{
						ArtifactLocation: ArtifactLocation{URI: p},
					},
				},
			}
		}
		results = append(results, result)
	}
	return &Log{
		Version: Version,
		Schema:  Schema,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:           ToolName,
						InformationURI: InformationURI,
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// Write outputs the log as indented JSON.
func Write(w io.Writer, log *Log) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}
