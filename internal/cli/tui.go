// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/i18n"
	"github.com/jeranaias/composer/internal/mirror"
	"github.com/jeranaias/composer/internal/ui/composer"
	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/upload"
)

// runTUI starts the interactive composer.
func runTUI(ctx context.Context, opts *options, printSubmissions bool, out io.Writer) error {
	if err := RequiresTTY("start the composer"); err != nil {
		return err
	}

	p, err := openProject(ctx, opts)
	if err != nil {
		return err
	}
	defer p.Close()

	if p.disk != nil {
		// Materialize the table before watching the mirror.
		if err := p.disk.Sync(ctx, false); err != nil {
			p.log.Warn("Initial mirror failed", zap.Error(err))
		}
		if p.cfg.Files.Watch {
			w, err := mirror.NewWatcher(p.disk.Dir(), p.store, 0, p.log)
			if err != nil {
				return fmt.Errorf("failed to watch %s: %w", p.disk.Dir(), err)
			}
			if err := w.Watch(); err != nil {
				w.Close()
				return fmt.Errorf("failed to watch %s: %w", p.disk.Dir(), err)
			}
			defer w.Close()
		}
	}

	tr := i18n.New(p.cfg.UI.Language)
	var paster *upload.Paster
	if p.cfg.Upload.Endpoint != "" {
		uploader := upload.NewHTTPUploader(p.cfg.Upload.Endpoint, p.cfg.Upload.Timeout())
		paster = upload.NewPaster(uploader, p.cfg.Upload.UseImage, tr, p.log)
	}

	var sent []composer.Submission
	model := composer.New(composer.Deps{
		Store:      p.store,
		Paster:     paster,
		Translator: tr,
		Theme:      styles.NewTheme(p.cfg.UI.Theme),
		UI:         p.cfg.UI,
		Logger:     p.log,
		OnSubmit: func(s composer.Submission) {
			sent = append(sent, s)
		},
	})
	defer model.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Sync failures are reported to the composer. Send blocks until the
	// loop receives the message, so it must not run on the loop itself.
	p.store.SetSyncer(files.SyncFunc(func(ctx context.Context, closeFlag bool) error {
		err := p.syncer.Sync(ctx, closeFlag)
		if err != nil {
			go program.Send(composer.SyncErrorMsg{Err: err})
		}
		return err
	}))

	p.log.Info("Composer started",
		zap.Int("files", p.store.Len()),
		zap.String("language", tr.Language()),
		zap.Bool("images", paster != nil && paster.UseImage()))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("composer exited: %w", err)
	}

	if printSubmissions {
		for i, s := range sent {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, s.Expanded)
		}
	}
	return nil
}
