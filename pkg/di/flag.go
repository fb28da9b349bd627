package di

import (
	"github.com/guardrail-ci/guardrail-task/pkg/cli/flag"
	"github.com/guardrail-ci/guardrail-task/pkg/config"
)

// Flags holds the command line flags of the run and convert commands.
// Empty strings and nil pointers mean the flag wasn't set, so the
// configuration file value or the default is used.
type Flags struct {
	*flag.GlobalFlags

	Path              string
	State             string
	Schema            *bool
	FailOn            string
	Python            string
	Install           *bool
	InstallVersion    string
	VersionConstraint string

	PolicyBundle   string
	PolicyRegistry string
	PolicyQuery    string
	PolicyLayers   []string
	PolicyBase     string
	PolicyEnv      string
	PolicyApp      string

	ReportJSON   string
	ReportSARIF  string
	ReportJUnit  string
	UploadSARIF  *bool
	PublishJUnit *bool

	GitHubAPIURL string
	GHESAPIURL   string

	PWD  string
	Args []string
}

const defaultGitHubAPIURL = "https://api.github.com"

// GetAPIURL returns the GitHub Enterprise Server API URL.
// It returns an empty string for github.com.
func (f *Flags) GetAPIURL() string {
	if f.GHESAPIURL != "" {
		return f.GHESAPIURL
	}
	if f.GitHubAPIURL == "" || f.GitHubAPIURL == defaultGitHubAPIURL {
		return ""
	}
	return f.GitHubAPIURL
}

func setString(dest *string, v string) {
	if v != "" {
		*dest = v
	}
}

// Merge overwrites the configuration with the flags that are set.
func (f *Flags) Merge(cfg *config.Config) {
	if len(f.Args) != 0 {
		cfg.Path = f.Args[0]
	}
	setString(&cfg.Path, f.Path)
	setString(&cfg.State, f.State)
	setString(&cfg.FailOn, f.FailOn)
	setString(&cfg.Python, f.Python)
	if f.Schema != nil {
		cfg.Schema = *f.Schema
	}
	if f.UploadSARIF != nil {
		cfg.UploadSARIF = *f.UploadSARIF
	}
	if f.PublishJUnit != nil {
		cfg.PublishJUnit = f.PublishJUnit
	}

	if cfg.Install == nil {
		cfg.Install = &config.Install{}
	}
	if f.Install != nil {
		cfg.Install.Enabled = f.Install
	}
	setString(&cfg.Install.Version, f.InstallVersion)
	setString(&cfg.Install.VersionConstraint, f.VersionConstraint)

	if cfg.Policy == nil {
		cfg.Policy = &config.Policy{}
	}
	setString(&cfg.Policy.Bundle, f.PolicyBundle)
	setString(&cfg.Policy.Registry, f.PolicyRegistry)
	setString(&cfg.Policy.Query, f.PolicyQuery)
	setString(&cfg.Policy.Base, f.PolicyBase)
	setString(&cfg.Policy.Env, f.PolicyEnv)
	setString(&cfg.Policy.App, f.PolicyApp)
	if len(f.PolicyLayers) != 0 {
		cfg.Policy.Layers = f.PolicyLayers
	}

	if cfg.Reports == nil {
		cfg.Reports = &config.Reports{}
	}
	setString(&cfg.Reports.JSON, f.ReportJSON)
	setString(&cfg.Reports.SARIF, f.ReportSARIF)
	setString(&cfg.Reports.JUnit, f.ReportJUnit)
}
