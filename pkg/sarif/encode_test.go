package sarif_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guardrail-ci/guardrail-task/pkg/finding"
	"github.com/guardrail-ci/guardrail-task/pkg/sarif"
)

func TestLevel(t *testing.T) {
	t.Parallel()
	data := []struct {
		name     string
		severity *string
		exp      string
	}{
		{name: "high", severity: finding.Ptr("high"), exp: "error"},
		{name: "medium", severity: finding.Ptr("medium"), exp: "warning"},
		{name: "low", severity: finding.Ptr("low"), exp: "note"},
		{name: "nil", severity: nil, exp: "note"},
		{name: "unexpected", severity: finding.Ptr("unexpected"), exp: "note"},
		{name: "upper case is not high", severity: finding.Ptr("HIGH"), exp: "note"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			if got := sarif.Level(d.severity); got != d.exp {
				t.Errorf("wanted %q, got %q", d.exp, got)
			}
		})
	}
}

func TestEncode(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name     string
		findings []finding.Finding
		rules    []sarif.Rule
		results  []sarif.Result
	}{
		{
			name:     "empty",
			findings: nil,
			rules:    []sarif.Rule{},
			results:  []sarif.Result{},
		},
		{
			name: "mixed severities",
			findings: []finding.Finding{
				{
					RuleID:   finding.Ptr("S3-PUBLIC"),
					Severity: finding.Ptr("high"),
					Message:  finding.Ptr("bucket is public"),
					Path:     finding.Ptr("main.tf"),
				},
				{
					RuleID:   finding.Ptr("TAG-MISSING"),
					Severity: finding.Ptr("low"),
					Message:  finding.Ptr("missing tag"),
				},
			},
			rules: []sarif.Rule{
				{ID: "S3-PUBLIC", Name: "S3-PUBLIC"},
				{ID: "TAG-MISSING", Name: "TAG-MISSING"},
			},
			results: []sarif.Result{
				{
					RuleID:  "S3-PUBLIC",
					Level:   "error",
					Message: sarif.Message{Text: "bucket is public"},
					Locations: []sarif.Location{
						{PhysicalLocation: sarif.PhysicalLocation{ArtifactLocation: sarif.ArtifactLocation{URI: "main.tf"}}},
					},
				},
				{
					RuleID:  "TAG-MISSING",
					Level:   "note",
					Message: sarif.Message{Text: "missing tag"},
				},
			},
		},
		{
			name: "duplicated rule ids",
			findings: []finding.Finding{
				{RuleID: finding.Ptr("R1"), Severity: finding.Ptr("medium"), Message: finding.Ptr("first")},
				{RuleID: finding.Ptr("R1"), Severity: finding.Ptr("high"), Message: finding.Ptr("second")},
			},
			rules: []sarif.Rule{{ID: "R1", Name: "R1"}},
			results: []sarif.Result{
				{RuleID: "R1", Level: "warning", Message: sarif.Message{Text: "first"}},
				{RuleID: "R1", Level: "error", Message: sarif.Message{Text: "second"}},
			},
		},
		{
			name: "all fields missing",
			findings: []finding.Finding{
				{},
				{RuleID: finding.Ptr(""), Path: finding.Ptr("")},
			},
			rules: []sarif.Rule{{ID: "UNKNOWN", Name: "UNKNOWN"}},
			results: []sarif.Result{
				{RuleID: "UNKNOWN", Level: "note", Message: sarif.Message{Text: ""}},
				{RuleID: "UNKNOWN", Level: "note", Message: sarif.Message{Text: ""}},
			},
		},
		{
			name: "rules follow first occurrence and results keep input order",
			findings: []finding.Finding{
				{RuleID: finding.Ptr("Z"), Message: finding.Ptr("zulu")},
				{RuleID: finding.Ptr("A"), Message: finding.Ptr("alpha")},
				{RuleID: finding.Ptr("Z"), Message: finding.Ptr("mike")},
			},
			rules: []sarif.Rule{{ID: "Z", Name: "Z"}, {ID: "A", Name: "A"}},
			results: []sarif.Result{
				{RuleID: "Z", Level: "note", Message: sarif.Message{Text: "zulu"}},
				{RuleID: "A", Level: "note", Message: sarif.Message{Text: "alpha"}},
				{RuleID: "Z", Level: "note", Message: sarif.Message{Text: "mike"}},
			},
		},
		{
			name: "path is kept verbatim",
			findings: []finding.Finding{
				{RuleID: finding.Ptr("TG002"), Path: finding.Ptr("./modules/db/main.tf")},
			},
			rules: []sarif.Rule{{ID: "TG002", Name: "TG002"}},
			results: []sarif.Result{
				{
					RuleID:  "TG002",
					Level:   "note",
					Message: sarif.Message{Text: ""},
					Locations: []sarif.Location{
						{PhysicalLocation: sarif.PhysicalLocation{ArtifactLocation: sarif.ArtifactLocation{URI: "./modules/db/main.tf"}}},
					},
				},
			},
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			log := sarif.Encode(d.findings)
			if log.Version != "2.1.0" {
				t.Errorf("version: wanted 2.1.0, got %s", log.Version)
			}
			if log.Schema != sarif.Schema {
				t.Errorf("schema: wanted %s, got %s", sarif.Schema, log.Schema)
			}
			if len(log.Runs) != 1 {
				t.Fatalf("runs: wanted 1, got %d", len(log.Runs))
			}
			driver := log.Runs[0].Tool.Driver
			if driver.Name != sarif.ToolName {
				t.Errorf("driver name: wanted %s, got %s", sarif.ToolName, driver.Name)
			}
			if driver.InformationURI != sarif.InformationURI {
				t.Errorf("informationUri: wanted %s, got %s", sarif.InformationURI, driver.InformationURI)
			}
			if diff := cmp.Diff(d.rules, driver.Rules); diff != "" {
				t.Errorf("rules (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(d.results, log.Runs[0].Results); diff != "" {
				t.Errorf("results (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrite_empty(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	if err := sarif.Write(buf, sarif.Encode(nil)); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Version string `json:"version"`
		Schema  string `json:"$schema"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Rules []any `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []any `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Runs) != 1 {
		t.Fatalf("runs: wanted 1, got %d", len(doc.Runs))
	}
	if doc.Runs[0].Tool.Driver.Rules == nil {
		t.Error("rules should be an empty array, not null or missing")
	}
	if doc.Runs[0].Results == nil {
		t.Error("results should be an empty array, not null or missing")
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"rules": []`)) {
		t.Errorf("rules should be serialized as []:\n%s", buf.String())
	}
}

func TestWrite_locationOmittedWithoutPath(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := sarif.Encode([]finding.Finding{{RuleID: finding.Ptr("TG016"), Message: finding.Ptr("missing tag")}})
	if err := sarif.Write(buf, log); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("locations")) {
		t.Errorf("locations should be omitted:\n%s", buf.String())
	}
}
