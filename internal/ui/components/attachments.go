// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/ui/styles"
	"github.com/jeranaias/composer/internal/upload"
	"github.com/jeranaias/composer/internal/util"
)

// RenderErrors draws the project error list shown above the input. The
// first entry carries the fix and dismiss hints.
func RenderErrors(theme *styles.Theme, errs []files.ErrorMessage, width int) string {
	if len(errs) == 0 {
		return ""
	}
	rows := make([]string, 0, len(errs))
	for i, e := range errs {
		text := e.Message
		if e.Number > 1 {
			text += " (x" + strconv.Itoa(e.Number) + ")"
		}
		row := theme.ErrorItem.Render(util.TruncateWidth(text, width-4))
		if e.Code != "" {
			firstLine, _, _ := strings.Cut(e.Code, "\n")
			row += "\n" + theme.ErrorCode.Render("  "+util.TruncateWidth(firstLine, width-4))
		}
		if i == 0 {
			row += "\n" + theme.ErrorHint.Render("  ctrl+f fix  ctrl+x dismiss")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// RenderImages draws the images attached to the next message.
func RenderImages(theme *styles.Theme, images []upload.UploadedImage, width int) string {
	if len(images) == 0 {
		return ""
	}
	names := make([]string, 0, len(images))
	for _, img := range images {
		names = append(names, "[img "+filepath.Base(img.Path)+"]")
	}
	list := util.TruncateWidth(strings.Join(names, " "), width-16)
	return theme.ImageItem.Render(list) + "  " + theme.ErrorHint.Render("ctrl+r remove")
}
