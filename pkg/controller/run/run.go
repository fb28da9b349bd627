package run

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guardrail-ci/guardrail-task/pkg/finding"
	"github.com/guardrail-ci/guardrail-task/pkg/github"
	"github.com/guardrail-ci/guardrail-task/pkg/junit"
	"github.com/guardrail-ci/guardrail-task/pkg/pipeline"
	"github.com/guardrail-ci/guardrail-task/pkg/sarif"
	"github.com/guardrail-ci/guardrail-task/pkg/scanner"
	"github.com/guardrail-ci/guardrail-task/pkg/terraform"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

const (
	MessageComplete       = "Terraform Guardrail scan complete."
	MessageParseFailure   = "Failed to parse JSON output."
	MessageNoTerraform    = "No Terraform files were found in the scan target."
	MessageUploadFailure  = "Failed to upload the SARIF report to GitHub code scanning."
	MessageUploadNoClient = "The SARIF report wasn't uploaded because a GitHub token isn't set."

	filePermission os.FileMode = 0o644
	dirPermission  os.FileMode = 0o755
)

// ViolationsError means the scanner exited with a non-zero code.
type ViolationsError struct {
	ExitCode int
}

func (e *ViolationsError) Error() string {
	return fmt.Sprintf("Terraform Guardrail found policy violations (exit %d).", e.ExitCode)
}

// Run runs the whole task and reports the result to the CI system.
func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	err := c.run(ctx, logE)
	if err != nil {
		c.reporter.Complete(false, err.Error())
		return err
	}
	c.reporter.Complete(true, MessageComplete)
	return nil
}

func (c *Controller) run(ctx context.Context, logE *logrus.Entry) error {
	cfg := c.param.Config
	logE = logE.WithField("scan_target", cfg.Path)
	if err := c.inspect(logE); err != nil {
		return err
	}
	if err := c.install(ctx, logE); err != nil {
		return err
	}
	logE.WithField("fail_on", cfg.FailOn).Info("running the scanner")
	result, err := c.scanner.Scan(ctx, c.options())
	if err != nil {
		return err
	}
	if len(result.Stderr) != 0 {
		c.param.Stderr.Write(result.Stderr) //nolint:errcheck
	}
	if err := c.writeFile(cfg.Reports.JSON, result.Stdout); err != nil {
		return fmt.Errorf("write the JSON report: %w", err)
	}
	findings := c.parse(logE, result.Stdout)
	sarifReport, err := c.writeReports(findings)
	if err != nil {
		return err
	}
	c.logger.Summary(findings)
	c.uploadSARIF(ctx, logE, sarifReport)
	if cfg.PublishJUnitEnabled() {
		c.reporter.PublishJUnit(cfg.Reports.JUnit, junit.SuiteName)
	}
	if result.ExitCode != 0 {
		return &ViolationsError{ExitCode: result.ExitCode}
	}
	return nil
}

func (c *Controller) inspect(logE *logrus.Entry) error {
	inv, err := terraform.Inspect(c.fs, c.param.Config.Path)
	if err != nil {
		return fmt.Errorf("inspect the scan target: %w", err)
	}
	if len(inv.Files) == 0 {
		c.reporter.Warning(MessageNoTerraform)
	}
	for _, diag := range inv.Diagnostics {
		logE.WithFields(logrus.Fields{
			"file": diag.File,
			"line": diag.Line,
		}).Warn(diag.Message)
	}
	logE.WithField("terraform_files", len(inv.Files)).Debug("inspected the scan target")
	return nil
}

func (c *Controller) install(ctx context.Context, logE *logrus.Entry) error {
	cfg := c.param.Config
	if cfg.InstallEnabled() {
		if err := c.scanner.Install(ctx, logE, cfg.Install.Version); err != nil {
			return fmt.Errorf("install the scanner: %w", err)
		}
	}
	if cfg.Install == nil || cfg.Install.VersionConstraint == "" {
		return nil
	}
	ver, err := c.scanner.Version(ctx)
	if err != nil {
		return err
	}
	logE.WithField("scanner_version", ver).Debug("checking the scanner version")
	if err := scanner.CheckVersion(ver, cfg.Install.VersionConstraint); err != nil {
		return fmt.Errorf("check the scanner version: %w", err)
	}
	return nil
}

func (c *Controller) options() *scanner.Options {
	cfg := c.param.Config
	return &scanner.Options{
		Path:           cfg.Path,
		State:          cfg.State,
		Schema:         cfg.Schema,
		FailOn:         cfg.FailOn,
		PolicyBundle:   cfg.Policy.Bundle,
		PolicyLayers:   cfg.Policy.Layers,
		PolicyBase:     cfg.Policy.Base,
		PolicyEnv:      cfg.Policy.Env,
		PolicyApp:      cfg.Policy.App,
		PolicyRegistry: cfg.Policy.Registry,
		PolicyQuery:    cfg.Policy.Query,
	}
}

// parse never fails. Output that isn't a JSON report gives no findings.
func (c *Controller) parse(logE *logrus.Entry, out []byte) []finding.Finding {
	report, err := finding.ParseReport(out)
	if err != nil {
		logerr.WithError(logE, err).Debug("parse the scanner output")
		c.reporter.Warning(MessageParseFailure)
		return []finding.Finding{}
	}
	return report.Findings
}

// writeReports writes the SARIF and JUnit reports and returns the SARIF report.
func (c *Controller) writeReports(findings []finding.Finding) ([]byte, error) {
	cfg := c.param.Config
	sarifBuf := &bytes.Buffer{}
	if err := sarif.Write(sarifBuf, sarif.Encode(findings)); err != nil {
		return nil, fmt.Errorf("encode the SARIF report: %w", err)
	}
	if err := c.writeFile(cfg.Reports.SARIF, sarifBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("write the SARIF report: %w", err)
	}
	junitBuf := &bytes.Buffer{}
	if err := junit.Write(junitBuf, junit.Encode(findings)); err != nil {
		return nil, fmt.Errorf("encode the JUnit report: %w", err)
	}
	if err := c.writeFile(cfg.Reports.JUnit, junitBuf.Bytes()); err != nil {
		return nil, fmt.Errorf("write the JUnit report: %w", err)
	}
	return sarifBuf.Bytes(), nil
}

func (c *Controller) writeFile(p string, b []byte) error {
	if dir := filepath.Dir(p); dir != "." {
		if err := c.fs.MkdirAll(dir, dirPermission); err != nil {
			return fmt.Errorf("create a directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(c.fs, p, b, filePermission); err != nil {
		return fmt.Errorf("write a file %s: %w", p, err)
	}
	return nil
}

func (c *Controller) uploadSARIF(ctx context.Context, logE *logrus.Entry, report []byte) {
	if !c.param.Config.UploadSARIF {
		return
	}
	if c.uploader == nil {
		c.reporter.Warning(MessageUploadNoClient)
		return
	}
	env := c.param.Pipeline
	if env == nil {
		env = &pipeline.Env{}
	}
	owner, repo := env.OwnerRepo()
	upload := &github.Upload{
		Owner:     owner,
		Repo:      repo,
		CommitSHA: env.CommitSHA,
		Ref:       env.Ref,
		ToolName:  sarif.ToolName,
		SARIF:     report,
	}
	if c.param.PWD != "" {
		upload.CheckoutURI = "file://" + strings.TrimSuffix(filepath.ToSlash(c.param.PWD), "/") + "/"
	}
	id, err := c.uploader.Upload(ctx, logE, upload)
	if err != nil {
		logerr.WithError(logE, err).Warn("upload the SARIF report")
		c.reporter.Warning(MessageUploadFailure)
		return
	}
	logE.WithField("sarif_id", id).Info("uploaded the SARIF report to GitHub code scanning")
}
