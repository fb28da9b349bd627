// Package junit renders scanner findings as a JUnit XML test suite so that CI
// test dashboards can show them. Each finding becomes a test case: low
// severity findings are skipped and every other finding is a failure.
package junit

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/guardrail-ci/guardrail-task/pkg/finding"
)

const (
	SuiteName = "terraform-guardrail"
	header    = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
)

type TestSuite struct {
	XMLName   xml.Name   `xml:"testsuite"`
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Skipped   int        `xml:"skipped,attr"`
	TestCases []TestCase `xml:"testcase"`
}

type TestCase struct {
	ClassName string   `xml:"classname,attr"`
	Name      string   `xml:"name,attr"`
	Skipped   *Skipped `xml:"skipped,omitempty"`
	Failure   *Failure `xml:"failure,omitempty"`
}

type Skipped struct {
	Message string `xml:"message,attr"`
}

type Failure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

// Detail is the text shown for a finding: the message, followed by the path
// in parentheses when the finding has one.
func Detail(f *finding.Finding) string {
	msg := f.MessageText()
	if p := f.PathText(); p != "" {
		return msg + " (" + p + ")"
	}
	return msg
}

// Encode builds the test suite. Counts are computed over the whole list
// before the test cases are emitted, so Tests always equals Failures + Skipped.
func Encode(findings []finding.Finding) *TestSuite {
	suite := &TestSuite{
		Name:      SuiteName,
		Tests:     len(findings),
		TestCases: make([]TestCase, 0, len(findings)),
	}
	for i := range findings {
		if findings[i].IsLow() {
			suite.Skipped++
		} else {
			suite.Failures++
		}
	}
	for i := range findings {
		f := &findings[i]
		detail := Detail(f)
		tc := TestCase{
			ClassName: f.RuleIDOrUnknown(),
			Name:      f.MessageText(),
		}
		if f.IsLow() {
			tc.Skipped = &Skipped{Message: detail}
		} else {
			tc.Failure = &Failure{Message: detail, Text: detail}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}
	return suite
}

// Write outputs the XML declaration and the indented suite.
// Attribute values and text are escaped by encoding/xml.
func Write(w io.Writer, suite *TestSuite) error {
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("write the XML header: %w", err)
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suite); err != nil {
		return fmt.Errorf("encode JUnit XML: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write a trailing newline: %w", err)
	}
	return nil
}
