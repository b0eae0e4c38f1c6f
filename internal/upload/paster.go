// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/composer/internal/i18n"
	"github.com/jeranaias/composer/internal/logging"
)

var (
	// ErrBusy is returned while another paste upload is running.
	ErrBusy = errors.New("upload already in progress")
	// ErrImagesDisabled is returned when image input is switched off.
	ErrImagesDisabled = errors.New("images are disabled")
)

// Status of an uploaded image.
type Status string

const (
	StatusDone Status = "done"
)

// UploadedImage is an image attached to the next message.
type UploadedImage struct {
	ID     string
	Path   string
	URL    string
	Status Status
}

// Result is the outcome of one paste. Message is the user-facing toast
// text; Err is set when any upload failed, in which case Images is empty.
type Result struct {
	Images  []UploadedImage
	Message string
	Err     error
}

// Paster uploads pasted images, one paste at a time.
type Paster struct {
	uploader  Uploader
	tr        *i18n.Translator
	logger    *zap.Logger
	useImage  atomic.Bool
	uploading atomic.Bool
}

// NewPaster creates a paster. tr and logger may be nil.
func NewPaster(uploader Uploader, useImage bool, tr *i18n.Translator, logger *zap.Logger) *Paster {
	if tr == nil {
		tr = i18n.New("en")
	}
	p := &Paster{
		uploader: uploader,
		tr:       tr,
		logger:   logging.OrNop(logger).Named("upload"),
	}
	p.useImage.Store(useImage)
	return p
}

// SetUseImage enables or disables image pastes.
func (p *Paster) SetUseImage(v bool) { p.useImage.Store(v) }

// UseImage reports whether image pastes are accepted.
func (p *Paster) UseImage() bool { return p.useImage.Load() }

// Uploading reports whether a paste upload is running.
func (p *Paster) Uploading() bool { return p.uploading.Load() }

// Paste uploads paths in parallel. It returns ErrImagesDisabled or ErrBusy
// without doing anything when the paste is not accepted; all other outcomes
// are reported through Result.
func (p *Paster) Paste(ctx context.Context, paths []string) (Result, error) {
	if !p.useImage.Load() {
		return Result{}, ErrImagesDisabled
	}
	if !p.uploading.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer p.uploading.Store(false)

	images := make([]UploadedImage, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			url, err := p.uploader.Upload(gctx, path)
			if err != nil {
				return err
			}
			images[i] = UploadedImage{
				ID:     uuid.New().String(),
				Path:   path,
				URL:    url,
				Status: StatusDone,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Error("Failed to upload pasted images", zap.Int("count", len(paths)), zap.Error(err))
		return Result{Message: p.tr.T(i18n.KeyUploadFailed), Err: err}, nil
	}

	p.logger.Info("Images uploaded", zap.Int("count", len(images)))
	msg := p.tr.T(i18n.KeyImagePasted)
	if len(images) != 1 {
		msg = p.tr.T(i18n.KeyImagesPasted, len(images))
	}
	return Result{Images: images, Message: msg}, nil
}
