package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/guardrail-ci/guardrail-task/pkg/cli"
	"github.com/guardrail-ci/guardrail-task/pkg/controller/run"
	"github.com/guardrail-ci/guardrail-task/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/go-stdutil"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var (
	version = ""
	commit  = "" //nolint:gochecknoglobals
	date    = "" //nolint:gochecknoglobals
)

func main() {
	logE := log.New(version)
	if err := core(logE); err != nil {
		var violations *run.ViolationsError
		if errors.As(err, &violations) {
			os.Exit(1)
		}
		logerr.WithError(logE, err).Fatal("guardrail-task failed")
	}
}

func core(logE *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cli.Run(ctx, logE, &stdutil.LDFlags{ //nolint:wrapcheck
		Version: version,
		Commit:  commit,
		Date:    date,
	}, os.Args...)
}
