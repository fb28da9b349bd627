// Package terraform inspects the scan target before the scanner runs.
package terraform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
)

var ErrTargetNotFound = errors.New("the scan target isn't found")

// Diagnostic is a syntax problem found in a Terraform file.
type Diagnostic struct {
	File    string
	Line    int
	Message string
}

// Inventory lists the Terraform files under the scan target.
type Inventory struct {
	Files       []string
	Diagnostics []*Diagnostic
}

func isTerraformFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".tf", ".tfvars", ".hcl":
		return true
	default:
		return false
	}
}

func skipDir(name string) bool {
	return name == ".terraform" || name == ".git"
}

// Inspect walks root and parses every Terraform file with HCL.
// If root is a file it is inspected regardless of its extension.
func Inspect(fs afero.Fs, root string) (*Inventory, error) {
	info, err := fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, root)
		}
		return nil, fmt.Errorf("get the scan target: %w", err)
	}
	inv := &Inventory{}
	parser := hclparse.NewParser()
	if !info.IsDir() {
		if err := inv.parse(fs, parser, root); err != nil {
			return nil, err
		}
		return inv, nil
	}
	if err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != root && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isTerraformFile(p) {
			return nil
		}
		return inv.parse(fs, parser, p)
	}); err != nil {
		return nil, fmt.Errorf("walk the scan target: %w", err)
	}
	return inv, nil
}

func (inv *Inventory) parse(fs afero.Fs, parser *hclparse.Parser, p string) error {
	src, err := afero.ReadFile(fs, p)
	if err != nil {
		return fmt.Errorf("read a Terraform file %s: %w", p, err)
	}
	inv.Files = append(inv.Files, p)
	_, diags := parser.ParseHCL(src, p)
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		d := &Diagnostic{File: p, Message: diag.Summary}
		if diag.Detail != "" {
			d.Message += ": " + diag.Detail
		}
		if diag.Subject != nil {
			d.Line = diag.Subject.Start.Line
		}
		inv.Diagnostics = append(inv.Diagnostics, d)
	}
	return nil
}
