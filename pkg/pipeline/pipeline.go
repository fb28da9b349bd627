// Package pipeline detects the CI system the task runs on and reports task
// results through that system's logging commands.
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type Kind string

const (
	KindAzurePipelines Kind = "azure-pipelines"
	KindGitHubActions  Kind = "github-actions"
	KindLocal          Kind = "local"
)

// Env is the repository information exposed by the CI system.
type Env struct {
	Kind       Kind
	Repository string
	CommitSHA  string
	Ref        string
	ServerURL  string
}

// Detect reads the CI environment variables.
func Detect(getEnv func(string) string) *Env {
	if strings.EqualFold(getEnv("TF_BUILD"), "true") {
		return &Env{
			Kind:       KindAzurePipelines,
			Repository: getEnv("BUILD_REPOSITORY_NAME"),
			CommitSHA:  getEnv("BUILD_SOURCEVERSION"),
			Ref:        getEnv("BUILD_SOURCEBRANCH"),
			ServerURL:  getEnv("BUILD_REPOSITORY_URI"),
		}
	}
	if getEnv("GITHUB_ACTIONS") == "true" {
		return &Env{
			Kind:       KindGitHubActions,
			Repository: getEnv("GITHUB_REPOSITORY"),
			CommitSHA:  getEnv("GITHUB_SHA"),
			Ref:        getEnv("GITHUB_REF"),
			ServerURL:  getEnv("GITHUB_SERVER_URL"),
		}
	}
	return &Env{Kind: KindLocal}
}

// OwnerRepo splits Repository ("owner/repo").
func (e *Env) OwnerRepo() (string, string) {
	owner, repo, ok := strings.Cut(e.Repository, "/")
	if !ok {
		return "", ""
	}
	return owner, repo
}

type Reporter struct {
	kind Kind
	out  io.Writer
	logE *logrus.Entry
}

func NewReporter(kind Kind, out io.Writer, logE *logrus.Entry) *Reporter {
	return &Reporter{
		kind: kind,
		out:  out,
		logE: logE,
	}
}

// Warning reports a non-fatal problem.
func (r *Reporter) Warning(msg string) {
	switch r.kind {
	case KindAzurePipelines:
		fmt.Fprintf(r.out, "##vso[task.logissue type=warning]%s\n", escapeData(msg))
	case KindGitHubActions:
		fmt.Fprintf(r.out, "::warning::%s\n", githubEscaper.Replace(msg))
	default:
		r.logE.Warn(msg)
	}
}

// Complete sets the result of the task.
func (r *Reporter) Complete(succeeded bool, msg string) {
	switch r.kind {
	case KindAzurePipelines:
		result := "Succeeded"
		if !succeeded {
			result = "Failed"
		}
		fmt.Fprintf(r.out, "##vso[task.complete result=%s;]%s\n", result, escapeData(msg))
	case KindGitHubActions:
		if succeeded {
			fmt.Fprintln(r.out, msg)
			return
		}
		fmt.Fprintf(r.out, "::error::%s\n", githubEscaper.Replace(msg))
	default:
		if succeeded {
			r.logE.Info(msg)
			return
		}
		r.logE.Error(msg)
	}
}

// PublishJUnit asks Azure Pipelines to publish the JUnit report as test results.
// It does nothing on other systems.
func (r *Reporter) PublishJUnit(path, title string) {
	if r.kind != KindAzurePipelines {
		r.logE.WithField("junit_report", path).Debug("publishing test results is supported only on Azure Pipelines")
		return
	}
	fmt.Fprintf(r.out, "##vso[results.publish type=JUnit;resultFiles=%s;runTitle=%s;]\n", escapeProperty(path), escapeProperty(title))
}

var (
	dataEscaper = strings.NewReplacer(
		"%", "%AZP25",
		"\r", "%0D",
		"\n", "%0A",
	)
	githubEscaper = strings.NewReplacer(
		"%", "%25",
		"\r", "%0D",
		"\n", "%0A",
	)
	propertyEscaper = strings.NewReplacer(
		"%", "%AZP25",
		"\r", "%0D",
		"\n", "%0A",
		";", "%3B",
		"]", "%5D",
	)
)

// escapeData keeps a message on a single Azure Pipelines logging command line.
func escapeData(s string) string {
	return dataEscaper.Replace(s)
}

func escapeProperty(s string) string {
	return propertyEscaper.Replace(s)
}
