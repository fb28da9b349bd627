package run

import (
	"fmt"

	"github.com/guardrail-ci/guardrail-task/pkg/finding"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Convert builds the SARIF and JUnit reports from an existing JSON report
// without running the scanner.
// An empty input means the JSON report path of the configuration.
func (c *Controller) Convert(logE *logrus.Entry, input string) error {
	if input == "" {
		input = c.param.Config.Reports.JSON
	}
	b, err := afero.ReadFile(c.fs, input)
	if err != nil {
		return fmt.Errorf("read the JSON report: %w", err)
	}
	report, err := finding.ParseReport(b)
	if err != nil {
		return fmt.Errorf("read the JSON report %s: %w", input, err)
	}
	if _, err := c.writeReports(report.Findings); err != nil {
		return err
	}
	logE.WithFields(logrus.Fields{
		"sarif": c.param.Config.Reports.SARIF,
		"junit": c.param.Config.Reports.JUnit,
	}).Info("converted the JSON report")
	c.logger.Summary(report.Findings)
	return nil
}
