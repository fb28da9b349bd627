package log_test

import (
	"testing"

	"github.com/guardrail-ci/guardrail-task/pkg/log"
)

func TestNew(t *testing.T) {
	t.Parallel()
	logE := log.New("v1.0.0")
	if v := logE.Data["version"]; v != "v1.0.0" {
		t.Errorf("version: wanted v1.0.0, got %v", v)
	}
	if p := logE.Data["program"]; p != "guardrail-task" {
		t.Errorf("program: wanted guardrail-task, got %v", p)
	}
}
