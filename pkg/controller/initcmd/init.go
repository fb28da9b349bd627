package initcmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const (
	templateConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/guardrail-ci/guardrail-task/refs/heads/main/json-schema/guardrail-task.json
# guardrail-task - https://github.com/guardrail-ci/guardrail-task
path: .
fail_on: high
# state: terraform.tfstate
# schema: true
# python: python3

# install:
#   enabled: true
#   version: 1.2.0
#   version_constraint: ">= 1.0.0"

# policy:
#   bundle: baseline
#   registry: https://policies.example.com
#   query: data.guardrail.deny
#   layers:
#     - base
#     - prod

reports:
  json: guardrail-report.json
  sarif: guardrail-report.sarif
  junit: guardrail-junit.xml

# upload_sarif: true
# publish_junit: true
`
	filePermission os.FileMode = 0o644
)

type Controller struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Controller {
	return &Controller{fs: fs}
}

// Init creates a configuration file from a template.
// An existing file is left as is.
func (c *Controller) Init(configFilePath string) error {
	f, err := afero.Exists(c.fs, configFilePath)
	if err != nil {
		return fmt.Errorf("check if a configuration file exists: %w", err)
	}
	if f {
		return nil
	}
	if err := afero.WriteFile(c.fs, configFilePath, []byte(templateConfig), filePermission); err != nil {
		return fmt.Errorf("create a configuration file: %w", err)
	}
	return nil
}
