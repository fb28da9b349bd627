// Package di wires the dependencies of the guardrail-task commands.
// It reads the configuration file, merges command line flags, detects the CI
// system, and builds the controllers.
package di

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/guardrail-ci/guardrail-task/pkg/config"
	"github.com/guardrail-ci/guardrail-task/pkg/controller/run"
	"github.com/guardrail-ci/guardrail-task/pkg/github"
	"github.com/guardrail-ci/guardrail-task/pkg/log"
	"github.com/guardrail-ci/guardrail-task/pkg/pipeline"
	"github.com/guardrail-ci/guardrail-task/pkg/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Run executes the run command.
// Errors that happen before the scan starts are reported to the CI system too.
func Run(ctx context.Context, logE *logrus.Entry, flags *Flags, secrets *Secrets, getEnv func(string) string) error {
	env := pipeline.Detect(getEnv)
	if env.Kind != pipeline.KindLocal {
		color.NoColor = false
	}
	log.SetLevel(flags.LogLevel, logE)
	reporter := pipeline.NewReporter(env.Kind, os.Stdout, logE)

	fs := afero.NewOsFs()
	cfg, err := loadConfig(fs, flags)
	if err != nil {
		reporter.Complete(false, err.Error())
		return err
	}
	uploader, err := newUploader(ctx, logE, cfg, flags, secrets)
	if err != nil {
		reporter.Complete(false, err.Error())
		return err
	}
	ctrl := run.New(fs, scanner.New(&scanner.OSExecutor{}, cfg.Python), uploader, reporter, &run.ParamRun{
		Config:   cfg,
		Pipeline: env,
		PWD:      flags.PWD,
		Stderr:   os.Stderr,
	})
	return ctrl.Run(ctx, logE) //nolint:wrapcheck
}

// Convert executes the convert command.
func Convert(logE *logrus.Entry, flags *Flags, input string, stderr io.Writer) error {
	log.SetLevel(flags.LogLevel, logE)
	fs := afero.NewOsFs()
	cfg, err := loadConfig(fs, flags)
	if err != nil {
		return err
	}
	ctrl := run.New(fs, nil, nil, nil, &run.ParamRun{
		Config: cfg,
		Stderr: stderr,
	})
	return ctrl.Convert(logE, input) //nolint:wrapcheck
}

func loadConfig(fs afero.Fs, flags *Flags) (*config.Config, error) {
	cfg, err := readConfig(fs, flags.Config)
	if err != nil {
		return nil, err
	}
	flags.Merge(cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate the configuration: %w", err)
	}
	return cfg, nil
}

func readConfig(fs afero.Fs, configFilePath string) (*config.Config, error) {
	cfgFinder := config.NewFinder(fs)
	cfgReader := config.NewReader(fs)
	configPath, err := cfgFinder.Find(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("find configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := cfgReader.Read(cfg, configPath); err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	return cfg, nil
}

// newUploader returns nil if uploading SARIF is disabled or no token is set.
func newUploader(ctx context.Context, logE *logrus.Entry, cfg *config.Config, flags *Flags, secrets *Secrets) (run.Uploader, error) {
	if !cfg.UploadSARIF {
		return nil, nil //nolint:nilnil
	}
	if secrets.GitHubToken == "" {
		logE.Debug("GITHUB_TOKEN isn't set")
		return nil, nil //nolint:nilnil
	}
	gh, err := github.New(ctx, secrets.GitHubToken, flags.GetAPIURL())
	if err != nil {
		return nil, fmt.Errorf("create a GitHub client: %w", err)
	}
	return github.NewUploader(gh.CodeScanning), nil
}
