package flag

import "github.com/urfave/cli/v3"

type GlobalFlags struct {
	LogLevel string
	Config   string
}

func (gf *GlobalFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level",
			Sources:     cli.EnvVars("GUARDRAIL_LOG_LEVEL"),
			Destination: &gf.LogLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "configuration file path",
			Sources:     cli.EnvVars("GUARDRAIL_CONFIG", "INPUT_CONFIG"),
			Destination: &gf.Config,
		},
	}
}

// ReportFlags are the output paths shared by the run and convert commands.
func ReportFlags(jsonReport, sarifReport, junitReport *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "json-report",
			Usage:       "path of the raw JSON report. The default is guardrail-report.json",
			Sources:     cli.EnvVars("GUARDRAIL_JSON_REPORT", "INPUT_JSONREPORT"),
			Destination: jsonReport,
		},
		&cli.StringFlag{
			Name:        "sarif-report",
			Usage:       "path of the SARIF report. The default is guardrail-report.sarif",
			Sources:     cli.EnvVars("GUARDRAIL_SARIF_REPORT", "INPUT_SARIFREPORT"),
			Destination: sarifReport,
		},
		&cli.StringFlag{
			Name:        "junit-report",
			Usage:       "path of the JUnit report. The default is guardrail-junit.xml",
			Sources:     cli.EnvVars("GUARDRAIL_JUNIT_REPORT", "INPUT_JUNITREPORT"),
			Destination: junitReport,
		},
	}
}

// Bool returns nil if the flag isn't set, so the configuration file value is kept.
func Bool(c *cli.Command, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	b := c.Bool(name)
	return &b
}
