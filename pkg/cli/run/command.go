// Package run implements the 'guardrail-task run' command.
// Every flag can also be set with the GUARDRAIL_* environment variables or
// the INPUT_* variables Azure Pipelines sets for task inputs.
package run

import (
	"context"
	"fmt"
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

func (r *runner) Command() *cli.Command { //nolint:funlen
	f := r.flags
	return &cli.Command{
		Name:      "run",
		Usage:     "Scan Terraform with terraform-guardrail and write reports",
		ArgsUsage: "[<path>]",
		Description: `Install terraform-guardrail, scan Terraform code, and write JSON, SARIF, and JUnit reports.

$ guardrail-task run

You can pass the scan target as an argument.

e.g.

$ guardrail-task run infra
`,
		Action: r.action,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Usage:       "Terraform directory or file to scan. The default is the current directory",
				Sources:     cli.EnvVars("GUARDRAIL_PATH", "INPUT_PATH"),
				Destination: &f.Path,
			},
			&cli.StringFlag{
				Name:        "state",
				Usage:       "Terraform state file to scan",
				Sources:     cli.EnvVars("GUARDRAIL_STATE", "INPUT_STATE"),
				Destination: &f.State,
			},
			&cli.BoolFlag{
				Name:    "schema",
				Usage:   "Validate resources against provider schemas",
				Sources: cli.EnvVars("GUARDRAIL_SCHEMA", "INPUT_SCHEMA"),
			},
			&cli.StringFlag{
				Name:        "fail-on",
				Usage:       "Minimum severity that fails the scan (low, medium, high). The default is high",
				Sources:     cli.EnvVars("GUARDRAIL_FAIL_ON", "INPUT_FAILON"),
				Destination: &f.FailOn,
			},
			&cli.StringFlag{
				Name:        "python",
				Usage:       "Python interpreter used to install and run the scanner. The default is python3",
				Sources:     cli.EnvVars("GUARDRAIL_PYTHON", "INPUT_PYTHON"),
				Destination: &f.Python,
			},
			&cli.BoolFlag{
				Name:    "install",
				Usage:   "Install the scanner with pip before scanning. The default is true",
				Sources: cli.EnvVars("GUARDRAIL_INSTALL", "INPUT_INSTALL"),
			},
			&cli.StringFlag{
				Name:        "scanner-version",
				Usage:       "Scanner version to install",
				Sources:     cli.EnvVars("GUARDRAIL_SCANNER_VERSION", "INPUT_SCANNERVERSION"),
				Destination: &f.InstallVersion,
			},
			&cli.StringFlag{
				Name:        "scanner-version-constraint",
				Usage:       "Version constraint the installed scanner must satisfy (e.g. '>= 1.0.0')",
				Sources:     cli.EnvVars("GUARDRAIL_SCANNER_VERSION_CONSTRAINT", "INPUT_SCANNERVERSIONCONSTRAINT"),
				Destination: &f.VersionConstraint,
			},
			&cli.StringFlag{
				Name:        "policy-bundle",
				Usage:       "Policy bundle ID",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_BUNDLE", "INPUT_POLICYBUNDLE"),
				Destination: &f.PolicyBundle,
			},
			&cli.StringFlag{
				Name:        "policy-registry",
				Usage:       "Policy registry URL",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_REGISTRY", "INPUT_POLICYREGISTRY"),
				Destination: &f.PolicyRegistry,
			},
			&cli.StringFlag{
				Name:        "policy-query",
				Usage:       "OPA query",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_QUERY", "INPUT_POLICYQUERY"),
				Destination: &f.PolicyQuery,
			},
			&cli.StringSliceFlag{
				Name:        "policy-layers",
				Usage:       "Policy layers evaluated in order. This can be repeated",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_LAYERS", "INPUT_POLICYLAYERS"),
				Destination: &f.PolicyLayers,
			},
			&cli.StringFlag{
				Name:        "policy-base",
				Usage:       "Base policy bundle",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_BASE", "INPUT_POLICYBASE"),
				Destination: &f.PolicyBase,
			},
			&cli.StringFlag{
				Name:        "policy-env",
				Usage:       "Environment policy bundle",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_ENV", "INPUT_POLICYENV"),
				Destination: &f.PolicyEnv,
			},
			&cli.StringFlag{
				Name:        "policy-app",
				Usage:       "Application policy bundle",
				Sources:     cli.EnvVars("GUARDRAIL_POLICY_APP", "INPUT_POLICYAPP"),
				Destination: &f.PolicyApp,
			},
			&cli.BoolFlag{
				Name:    "upload-sarif",
				Usage:   "Upload the SARIF report to GitHub code scanning. GITHUB_TOKEN is required",
				Sources: cli.EnvVars("GUARDRAIL_UPLOAD_SARIF", "INPUT_UPLOADSARIF"),
			},
			&cli.BoolFlag{
				Name:    "publish-junit",
				Usage:   "Publish the JUnit report as Azure Pipelines test results. The default is true",
				Sources: cli.EnvVars("GUARDRAIL_PUBLISH_JUNIT", "INPUT_PUBLISHJUNIT"),
			},
		}, flag.ReportFlags(&f.ReportJSON, &f.ReportSARIF, &f.ReportJUnit)...),
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	pwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get the current directory: %w", err)
	}
	flags := r.flags
	flags.GlobalFlags = r.gFlags
	flags.PWD = pwd
	flags.Args = c.Args().Slice()
	flags.Schema = flag.Bool(c, "schema")
	flags.Install = flag.Bool(c, "install")
	flags.UploadSARIF = flag.Bool(c, "upload-sarif")
	flags.PublishJUnit = flag.Bool(c, "publish-junit")
	di.SetEnv(flags, os.Getenv)
	secrets := &di.Secrets{}
	secrets.SetFromEnv(os.Getenv)
	return di.Run(ctx, r.logE, flags, secrets, os.Getenv) //nolint:wrapcheck
}
