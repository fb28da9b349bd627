// Package scanner installs and runs the terraform-guardrail CLI.
// The policy evaluation itself happens entirely inside that external tool;
// this package only builds its command line and captures its output.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"
)

const (
	Command = "terraform-guardrail"
	Package = "terraform-guardrail"
)

// Options are the arguments of `terraform-guardrail scan`.
type Options struct {
	Path           string
	State          string
	Schema         bool
	FailOn         string
	PolicyBundle   string
	PolicyLayers   []string
	PolicyBase     string
	PolicyEnv      string
	PolicyApp      string
	PolicyRegistry string
	PolicyQuery    string
}

// Args returns the command line arguments. The output format is always JSON
// because the reports are built from it.
func (o *Options) Args() []string {
	args := []string{"scan", o.Path, "--format", "json", "--fail-on", o.FailOn}
	if o.Schema {
		args = append(args, "--schema")
	}
	if o.State != "" {
		args = append(args, "--state", o.State)
	}
	if o.PolicyBundle != "" {
		args = append(args, "--policy-bundle", o.PolicyBundle)
	}
	for _, layer := range o.PolicyLayers {
		args = append(args, "--policy-layers", layer)
	}
	for _, opt := range []struct {
		name  string
		value string
	}{
		{name: "--policy-base", value: o.PolicyBase},
		{name: "--policy-env", value: o.PolicyEnv},
		{name: "--policy-app", value: o.PolicyApp},
		{name: "--policy-registry", value: o.PolicyRegistry},
		{name: "--policy-query", value: o.PolicyQuery},
	} {
		if opt.value != "" {
			args = append(args, opt.name, opt.value)
		}
	}
	return args
}

type Scanner struct {
	exec    Executor
	python  string
	command string
}

func New(exec Executor, python string) *Scanner {
	return &Scanner{
		exec:    exec,
		python:  python,
		command: Command,
	}
}

// Install installs or upgrades the scanner with pip.
// Failing to upgrade pip itself is only logged.
func (s *Scanner) Install(ctx context.Context, logE *logrus.Entry, ver string) error {
	result, err := s.exec.Run(ctx, s.python, "-m", "pip", "install", "--upgrade", "pip")
	if err != nil {
		return fmt.Errorf("upgrade pip: %w", err)
	}
	if result.ExitCode != 0 {
		logE.WithFields(logrus.Fields{
			"exit_code": result.ExitCode,
			"stderr":    strings.TrimSpace(string(result.Stderr)),
		}).Warn("failed to upgrade pip")
	}
	pkg := Package
	if ver != "" {
		pkg += "==" + ver
	}
	logE.WithField("package", pkg).Info("installing the scanner")
	result, err = s.exec.Run(ctx, s.python, "-m", "pip", "install", "--upgrade", pkg)
	if err != nil {
		return fmt.Errorf("install %s: %w", pkg, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("install %s: pip exited with %d: %s", pkg, result.ExitCode, strings.TrimSpace(string(result.Stderr)))
	}
	return nil
}

// Version returns the installed scanner version.
func (s *Scanner) Version(ctx context.Context) (string, error) {
	result, err := s.exec.Run(ctx, s.command, "--version")
	if err != nil {
		return "", fmt.Errorf("get the scanner version: %w", err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("get the scanner version: exited with %d", result.ExitCode)
	}
	return parseVersionOutput(string(result.Stdout))
}

// Scan runs the scanner. A non-zero exit code means policy violations were
// found and is returned in the result.
func (s *Scanner) Scan(ctx context.Context, opts *Options) (*Result, error) {
	result, err := s.exec.Run(ctx, s.command, opts.Args()...)
	if err != nil {
		return nil, fmt.Errorf("run the scanner: %w", err)
	}
	return result, nil
}

// parseVersionOutput accepts both "0.6.1" and "terraform-guardrail 0.6.1".
func parseVersionOutput(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", errors.New("the scanner printed no version")
	}
	return fields[len(fields)-1], nil
}

// CheckVersion checks if the installed version satisfies the constraint.
func CheckVersion(installed, constraint string) error {
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("parse the version constraint %q: %w", constraint, err)
	}
	v, err := version.NewVersion(installed)
	if err != nil {
		return fmt.Errorf("parse the scanner version %q: %w", installed, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("the scanner version %s doesn't satisfy the constraint %s", installed, constraint)
	}
	return nil
}
