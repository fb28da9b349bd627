// Package convert implements the 'guardrail-task convert' command.
package convert

import (
	"context"
	"os"

	"github.com/guardrail-ci/guardrail-task/pkg/cli/flag"
	"github.com/guardrail-ci/guardrail-task/pkg/di"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, gFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:   logE,
		gFlags: gFlags,
		flags:  &di.Flags{},
	}
	return r.Command()
}

type runner struct {
	logE   *logrus.Entry
	gFlags *flag.GlobalFlags
	flags  *di.Flags
}

func (r *runner) Command() *cli.Command {
	f := r.flags
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a terraform-guardrail JSON report to SARIF and JUnit",
		ArgsUsage: "[<report.json>]",
		Description: `Convert a JSON report that terraform-guardrail already wrote, without running the scanner.

$ guardrail-task convert guardrail-report.json

If no argument is passed, the JSON report path of the configuration is used.
`,
		Action: r.action,
		Flags:  flag.ReportFlags(&f.ReportJSON, &f.ReportSARIF, &f.ReportJUnit),
	}
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	flags := r.flags
	flags.GlobalFlags = r.gFlags
	return di.Convert(r.logE, flags, c.Args().First(), os.Stderr) //nolint:wrapcheck
}
