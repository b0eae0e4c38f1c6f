// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the upload client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNoEndpoint
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeFile
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrNoEndpoint = &ClientError{Type: ErrTypeNoEndpoint, Message: "no upload endpoint configured"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "upload timed out"}
)

// Uploader stores one image file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// =============================================================================
// HTTP UPLOADER
// =============================================================================

// HTTPUploader posts files as multipart/form-data (field "file") and reads
// a JSON body of the form {"url": "..."}.
//
// HTTPUploader is safe for concurrent use.
type HTTPUploader struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPUploader creates an uploader for endpoint. A zero timeout means 30s.
func NewHTTPUploader(endpoint string, timeout time.Duration) *HTTPUploader {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPUploader{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends the file at path and returns the URL reported by the server.
func (u *HTTPUploader) Upload(ctx context.Context, path string) (string, error) {
	if u.endpoint == "" {
		return "", ErrNoEndpoint
	}

	f, err := os.Open(path)
	if err != nil {
		return "", &ClientError{Type: ErrTypeFile, Message: "failed to open image", Cause: err}
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", &ClientError{Type: ErrTypeFile, Message: "failed to build form", Cause: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", &ClientError{Type: ErrTypeFile, Message: "failed to read image", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return "", &ClientError{Type: ErrTypeFile, Message: "failed to build form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "upload request failed", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := resp.Status
		if len(msg) > 0 {
			detail += ": " + string(bytes.TrimSpace(msg))
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "upload rejected: " + detail}
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.URL == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "response has no url"}
	}
	return result.URL, nil
}
