// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n holds the translated user-facing strings of the composer.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeyPlaceholderChat    = "chat.modePlaceholders.chat"
	KeyPlaceholderBuilder = "chat.modePlaceholders.builder"
	KeyImagePasted        = "toast.imagePasted"
	KeyImagesPasted       = "toast.imagesPasted"
	KeyUploadFailed       = "toast.uploadFailed"
	KeyUploadBusy         = "toast.uploadBusy"
	KeyImagesDisabled     = "toast.imagesDisabled"
	KeyFixError           = "chat.fixError"
	KeySyncFailed         = "files.syncFailed"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyPlaceholderChat:    "Ask anything, type @ to mention a file",
		KeyPlaceholderBuilder: "Describe what to build, type @ to mention a file",
		KeyImagePasted:        "Image pasted successfully",
		KeyImagesPasted:       "%d images pasted successfully",
		KeyUploadFailed:       "Failed to upload pasted images",
		KeyUploadBusy:         "An upload is already in progress",
		KeyImagesDisabled:     "This model does not accept images",
		KeyFixError:           "Please help me fix this error:",
		KeySyncFailed:         "Failed to sync files",
	},
	language.Chinese: {
		KeyPlaceholderChat:    "有什么问题都可以问，输入 @ 引用文件",
		KeyPlaceholderBuilder: "描述你想构建的内容，输入 @ 引用文件",
		KeyImagePasted:        "图片粘贴成功",
		KeyImagesPasted:       "%d 张图片粘贴成功",
		KeyUploadFailed:       "粘贴的图片上传失败",
		KeyUploadBusy:         "已有上传正在进行",
		KeyImagesDisabled:     "当前模型不支持图片",
		KeyFixError:           "请帮我修复这个错误：",
		KeySyncFailed:         "文件同步失败",
	},
}

var (
	cat     *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
)

func init() {
	cat = catalog.NewBuilder(catalog.Fallback(language.English))
	tags = []language.Tag{language.English, language.Chinese}
	for _, tag := range tags {
		for key, msg := range translations[tag] {
			if err := cat.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	matcher = language.NewMatcher(tags)
}

// Translator resolves message keys for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a translator for the closest supported language to name
// ("en", "zh", "zh-CN", ...). Unknown names fall back to English.
func New(name string) *Translator {
	tag := language.English
	if name != "" {
		if requested, err := language.Parse(name); err == nil {
			_, idx, conf := matcher.Match(requested)
			if conf != language.No {
				tag = tags[idx]
			}
		}
	}
	return &Translator{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language returns the resolved language tag.
func (t *Translator) Language() string {
	return t.tag.String()
}

// T returns the translation for key, formatted with args.
// Keys without a translation are returned as-is.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Supported lists the languages that have a catalog.
func Supported() []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}
