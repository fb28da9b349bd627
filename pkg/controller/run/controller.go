// Package run implements the CI task around the terraform-guardrail scanner.
// The controller checks the scan target, installs and runs the scanner,
// writes the raw JSON, SARIF, and JUnit reports, and reports the result to
// the CI system. Uploading SARIF to GitHub code scanning and publishing JUnit
// results to Azure Pipelines are optional steps whose failures never fail the task.
package run

import (
	"context"
	"io"

	"github.com/guardrail-ci/guardrail-task/pkg/config"
	"github.com/guardrail-ci/guardrail-task/pkg/github"
	"github.com/guardrail-ci/guardrail-task/pkg/pipeline"
	"github.com/guardrail-ci/guardrail-task/pkg/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type Controller struct {
	fs       afero.Fs
	scanner  Scanner
	uploader Uploader
	reporter Reporter
	param    *ParamRun
	logger   *Logger
}

type Scanner interface {
	Install(ctx context.Context, logE *logrus.Entry, ver string) error
	Version(ctx context.Context) (string, error)
	Scan(ctx context.Context, opts *scanner.Options) (*scanner.Result, error)
}

type Uploader interface {
	Upload(ctx context.Context, logE *logrus.Entry, upload *github.Upload) (string, error)
}

type Reporter interface {
	Warning(msg string)
	Complete(succeeded bool, msg string)
	PublishJUnit(path, title string)
}

type ParamRun struct {
	Config   *config.Config
	Pipeline *pipeline.Env
	PWD      string
	Stderr   io.Writer
}

// New creates a controller. uploader may be nil, in which case the SARIF
// report isn't uploaded even if upload_sarif is enabled.
func New(fs afero.Fs, scanner Scanner, uploader Uploader, reporter Reporter, param *ParamRun) *Controller {
	return &Controller{
		fs:       fs,
		scanner:  scanner,
		uploader: uploader,
		reporter: reporter,
		param:    param,
		logger:   NewLogger(param.Stderr),
	}
}
