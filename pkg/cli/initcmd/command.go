// Package initcmd implements the 'guardrail-task init' command.
package initcmd

import (
	"context"

	"github.com/guardrail-ci/guardrail-task/pkg/cli/flag"
	"github.com/guardrail-ci/guardrail-task/pkg/controller/initcmd"
	"github.com/guardrail-ci/guardrail-task/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const defaultConfigFilePath = ".guardrail-task.yaml"

func New(logE *logrus.Entry, gFlags *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE:   logE,
		gFlags: gFlags,
	}
	return r.Command()
}

type runner struct {
	logE   *logrus.Entry
	gFlags *flag.GlobalFlags
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create .guardrail-task.yaml if it doesn't exist",
		ArgsUsage: "[<config file path>]",
		Description: `Create .guardrail-task.yaml if it doesn't exist

$ guardrail-task init

You can also pass configuration file path.

e.g.

$ guardrail-task init .github/guardrail-task.yaml
`,
		Action: r.action,
	}
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	log.SetLevel(r.gFlags.LogLevel, r.logE)
	configFilePath := c.Args().First()
	if configFilePath == "" {
		configFilePath = r.gFlags.Config
	}
	if configFilePath == "" {
		configFilePath = defaultConfigFilePath
	}
	return initcmd.New(afero.NewOsFs()).Init(configFilePath) //nolint:wrapcheck
}
