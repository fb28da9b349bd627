// Package cli defines the command line interface of guardrail-task.
package cli

import (
	"context"

	"github.com/guardrail-ci/guardrail-task/pkg/cli/convert"
	"github.com/guardrail-ci/guardrail-task/pkg/cli/flag"
	"github.com/guardrail-ci/guardrail-task/pkg/cli/initcmd"
	"github.com/guardrail-ci/guardrail-task/pkg/cli/run"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/go-stdutil"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, logE *logrus.Entry, ldFlags *stdutil.LDFlags, args ...string) error {
	gFlags := &flag.GlobalFlags{}
	cmd := &cli.Command{
		Name:                  "guardrail-task",
		Usage:                 "Run Terraform Guardrail in CI and publish SARIF and JUnit reports",
		Version:               ldFlags.Version + " (" + ldFlags.Commit + ")",
		Flags:                 gFlags.Flags(),
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			initcmd.New(logE, gFlags),
			run.New(logE, gFlags),
			convert.New(logE, gFlags),
			newVersionCommand(),
		},
	}
	return cmd.Run(ctx, args) //nolint:wrapcheck
}
