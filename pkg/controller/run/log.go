package run

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/guardrail-ci/guardrail-task/pkg/finding"
)

type colorFunc func(a ...any) string

type Logger struct {
	stderr io.Writer
	red    colorFunc
	yellow colorFunc
	cyan   colorFunc
}

func NewLogger(stderr io.Writer) *Logger {
	return &Logger{
		red:    color.New(color.FgRed).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
		stderr: stderr,
	}
}

func (l *Logger) label(f *finding.Finding) string {
	severity := "unknown"
	if f.Severity != nil && *f.Severity != "" {
		severity = *f.Severity
	}
	s := strings.ToUpper(severity)
	switch severity {
	case finding.SeverityHigh:
		return l.red(s)
	case finding.SeverityMedium:
		return l.yellow(s)
	case finding.SeverityLow:
		return l.cyan(s)
	default:
		return s
	}
}

// Summary prints the number of findings by severity and each finding.
func (l *Logger) Summary(findings []finding.Finding) {
	cnt := finding.CountBySeverity(findings)
	fmt.Fprintf(l.stderr, "Terraform Guardrail: %d findings (high: %d, medium: %d, low: %d)\n",
		len(findings), cnt.High, cnt.Medium, cnt.Low)
	for i := range findings {
		f := &findings[i]
		fmt.Fprintf(l.stderr, "%s %s %s\n", l.label(f), f.RuleIDOrUnknown(), f.MessageText())
		if p := f.PathText(); p != "" {
			fmt.Fprintf(l.stderr, "  %s\n", p)
		}
	}
}
