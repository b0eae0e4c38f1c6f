// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package upload turns pasted image files into uploaded image references.
//
// A terminal cannot paste raw image bytes, so a bracketed paste whose
// fields all name existing image files is treated as an image paste
// (see ImagePaths). Paster uploads them in parallel through an Uploader,
// allowing only one paste upload at a time.
package upload
