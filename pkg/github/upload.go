package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
)

// CodeScanningService is the subset of the GitHub Code Scanning API used by the task.
type CodeScanningService interface {
	UploadSarif(ctx context.Context, owner, repo string, sarif *SarifAnalysis) (*SarifID, *Response, error)
}

// Upload is a SARIF report and the commit it was produced for.
type Upload struct {
	Owner       string
	Repo        string
	CommitSHA   string
	Ref         string
	CheckoutURI string
	ToolName    string
	SARIF       []byte
}

func (u *Upload) Validate() error {
	if u.Owner == "" || u.Repo == "" {
		return errors.New("repository owner and name are required")
	}
	if u.CommitSHA == "" {
		return errors.New("commit SHA is required")
	}
	if u.Ref == "" {
		return errors.New("ref is required")
	}
	return nil
}

type Uploader struct {
	codeScanning CodeScanningService
}

func NewUploader(codeScanning CodeScanningService) *Uploader {
	return &Uploader{codeScanning: codeScanning}
}

// Upload sends the SARIF report and returns the id of the analysis upload.
func (u *Uploader) Upload(ctx context.Context, logE *logrus.Entry, upload *Upload) (string, error) {
	if err := upload.Validate(); err != nil {
		return "", fmt.Errorf("validate the SARIF upload: %w", err)
	}
	encoded, err := EncodeSARIF(upload.SARIF)
	if err != nil {
		return "", err
	}
	analysis := &SarifAnalysis{
		CommitSHA: Ptr(upload.CommitSHA),
		Ref:       Ptr(upload.Ref),
		Sarif:     Ptr(encoded),
	}
	if upload.CheckoutURI != "" {
		analysis.CheckoutURI = Ptr(upload.CheckoutURI)
	}
	if upload.ToolName != "" {
		analysis.ToolName = Ptr(upload.ToolName)
	}
	logE.WithFields(logrus.Fields{
		"repo_owner": upload.Owner,
		"repo_name":  upload.Repo,
		"ref":        upload.Ref,
	}).Debug("uploading a SARIF report")
	id, _, err := u.codeScanning.UploadSarif(ctx, upload.Owner, upload.Repo, analysis)
	if err != nil {
		return "", fmt.Errorf("upload a SARIF report to GitHub code scanning: %w", err)
	}
	if id == nil {
		return "", nil
	}
	return id.GetID(), nil
}

// EncodeSARIF compresses the report with gzip and encodes it with base64,
// the format the code scanning API requires.
func EncodeSARIF(b []byte) (string, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		return "", fmt.Errorf("compress a SARIF report: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("compress a SARIF report: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
