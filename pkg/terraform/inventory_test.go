package terraform_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guardrail-ci/guardrail-task/pkg/terraform"
	"github.com/spf13/afero"
)

func TestInspect(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name     string
		files    map[string]string
		root     string
		expFiles []string
		expDiags int
		isErr    bool
		notFound bool
	}{
		{
			name:     "not found",
			files:    map[string]string{},
			root:     "infra",
			isErr:    true,
			notFound: true,
		},
		{
			name: "directory",
			files: map[string]string{
				"infra/main.tf":                      `resource "aws_s3_bucket" "b" { bucket = "b" }`,
				"infra/prod.tfvars":                  `region = "eu-west-1"`,
				"infra/README.md":                    "# infra",
				"infra/modules/db/main.tf":           `variable "password" { sensitive = true }`,
				"infra/.terraform/modules/x/main.tf": `resource "x" "y" {}`,
				"infra/.terraform.lock.hcl":          `provider "registry.terraform.io/hashicorp/aws" { version = "5.0.0" }`,
			},
			root: "infra",
			expFiles: []string{
				"infra/.terraform.lock.hcl",
				"infra/main.tf",
				"infra/modules/db/main.tf",
				"infra/prod.tfvars",
			},
		},
		{
			name: "syntax error",
			files: map[string]string{
				"infra/main.tf": `resource "aws_s3_bucket" "b" {`,
			},
			root:     "infra",
			expFiles: []string{"infra/main.tf"},
			expDiags: 1,
		},
		{
			name: "file",
			files: map[string]string{
				"main.tf": `locals { a = 1 }`,
			},
			root:     "main.tf",
			expFiles: []string{"main.tf"},
		},
		{
			name: "no terraform files",
			files: map[string]string{
				"infra/README.md": "# infra",
			},
			root: "infra",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			for p, content := range d.files {
				if err := afero.WriteFile(fs, p, []byte(content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			inv, err := terraform.Inspect(fs, d.root)
			if d.isErr {
				if err == nil {
					t.Fatal("error must be returned")
				}
				if d.notFound && !errors.Is(err, terraform.ErrTargetNotFound) {
					t.Errorf("wanted ErrTargetNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(d.expFiles, inv.Files); diff != "" {
				t.Errorf("files (-want +got):\n%s", diff)
			}
			if len(inv.Diagnostics) < d.expDiags || (d.expDiags == 0 && len(inv.Diagnostics) != 0) {
				t.Errorf("diagnostics: wanted %d, got %d", d.expDiags, len(inv.Diagnostics))
			}
		})
	}
}
