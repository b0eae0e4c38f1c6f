// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// files_cmd.go - Scripting access to the persisted file table.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/composer/internal/files"
	"github.com/jeranaias/composer/internal/mirror"
	"github.com/jeranaias/composer/internal/ui/styles"
)

// FileInfo is one row of "files ls --json".
type FileInfo struct {
	Path       string `json:"path"`
	Size       int    `json:"size"`
	FirstSend  bool   `json:"first_send"`
	UpdateSend bool   `json:"update_send"`
}

// FileChange is the payload of the mutating commands in JSON mode.
type FileChange struct {
	Op      string `json:"op"`
	Path    string `json:"path"`
	NewPath string `json:"new_path,omitempty"`
	Files   int    `json:"files"`
}

func newFilesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "files",
		Aliases: []string{"f"},
		Short:   "Inspect and edit the file table",
	}
	cmd.AddCommand(
		newFilesListCommand(opts),
		newFilesCatCommand(opts),
		newFilesAddCommand(opts, false),
		newFilesAddCommand(opts, true),
		newFilesRemoveCommand(opts),
		newFilesMoveCommand(opts),
		newFilesMkdirCommand(opts),
		newFilesExportCommand(opts),
		newFilesImportCommand(opts),
	)
	return cmd
}

// withProject opens the project for the duration of fn.
func withProject(cmd *cobra.Command, opts *options, fn func(ctx context.Context, p *project) error) error {
	ctx := cmd.Context()
	p, err := openProject(ctx, opts)
	if err != nil {
		return err
	}
	defer p.Close()
	return fn(ctx, p)
}

// =============================================================================
// READ COMMANDS
// =============================================================================

func newFilesListCommand(opts *options) *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List files; + marks a pending first send, ~ a pending update",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, opts, func(_ context.Context, p *project) error {
				snap := p.store.Snapshot()
				out := cmd.OutOrStdout()
				return OutputJSON(out, opts.jsonMode, "files ls", func() (interface{}, error) {
					rows := make([]FileInfo, 0, len(snap.Entries))
					for _, e := range snap.Entries {
						rows = append(rows, FileInfo{
							Path:       e.Path,
							Size:       len(e.Content),
							FirstSend:  snap.FirstSend[e.Path],
							UpdateSend: snap.UpdateSend[e.Path],
						})
					}
					if opts.jsonMode {
						return rows, nil
					}
					if tree {
						printTree(out, p.store.Tree(), snap)
						return nil, nil
					}
					for _, r := range rows {
						fmt.Fprintf(out, "%s %s\n", sendMarker(r.FirstSend, r.UpdateSend), r.Path)
					}
					return nil, nil
				})
			})
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "show the folder hierarchy")
	return cmd
}

func sendMarker(first, update bool) string {
	switch {
	case first:
		return SuccessStyle.Render("+")
	case update:
		return ValueStyle.Render("~")
	default:
		return " "
	}
}

func printTree(w io.Writer, root *files.Node, snap files.Snapshot) {
	var lastAt []bool
	var walk func(n *files.Node)
	walk = func(n *files.Node) {
		for i, c := range n.Children {
			last := i == len(n.Children)-1
			line := styles.RenderTreeIndent(lastAt) + styles.RenderTreeLine(last)
			if c.IsDir {
				fmt.Fprintln(w, line+DirStyle.Render(c.Name+"/"))
			} else {
				fmt.Fprintln(w, line+c.Name+" "+sendMarker(snap.FirstSend[c.Path], snap.UpdateSend[c.Path]))
			}
			if len(c.Children) > 0 {
				lastAt = append(lastAt, last)
				walk(c)
				lastAt = lastAt[:len(lastAt)-1]
			}
		}
	}
	walk(root)
}

func newFilesCatCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "cat PATH",
		Short: "Print the content of a file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, opts, func(_ context.Context, p *project) error {
				content, ok := p.store.Lookup(args[0])
				if !ok {
					return ErrNotFound("file", args[0])
				}
				if opts.jsonMode {
					return NewJSONResponse("files cat", files.Entry{Path: args[0], Content: content}).Write(cmd.OutOrStdout())
				}
				_, err := io.WriteString(cmd.OutOrStdout(), content)
				return err
			})
		},
	}
}

// =============================================================================
// MUTATING COMMANDS
// =============================================================================

// newFilesAddCommand builds "add" or, with update set, "write". Content
// comes from --content, --from or stdin.
func newFilesAddCommand(opts *options, update bool) *cobra.Command {
	var content, from string
	use, short, op := "add PATH", "Add a file, marking it for its first send", files.OpAdd
	if update {
		use, short, op = "write PATH", "Replace a file's content, marking it for an update send", files.OpUpdate
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if err := checkPath(path); err != nil {
				return err
			}
			body, err := readContent(cmd, content, from)
			if err != nil {
				return err
			}
			return withProject(cmd, opts, func(ctx context.Context, p *project) error {
				var err error
				if update {
					err = p.store.UpdateContent(ctx, path, body, true)
				} else {
					err = p.store.AddFile(ctx, path, body, true)
				}
				if err != nil {
					return NewCommandError("files", string(op), "sync failed", err)
				}
				return report(cmd, opts, p, FileChange{Op: string(op), Path: path})
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "file content")
	cmd.Flags().StringVar(&from, "from", "", "read content from a local file")
	return cmd
}

func readContent(cmd *cobra.Command, content, from string) (string, error) {
	switch {
	case cmd.Flags().Changed("content") && from != "":
		return "", &usageError{err: errors.New("--content and --from are mutually exclusive")}
	case cmd.Flags().Changed("content"):
		return content, nil
	case from != "":
		data, err := os.ReadFile(from)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", from, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func newFilesRemoveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PATH",
		Aliases: []string{"delete"},
		Short:   "Delete a file or a folder with everything below it",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSuffix(args[0], "/")
			return withProject(cmd, opts, func(ctx context.Context, p *project) error {
				if !matchesAny(p.store.Paths(), path) {
					return ErrNotFound("file", path)
				}
				if err := p.store.DeleteFile(ctx, path); err != nil {
					return NewCommandError("files", "rm", "sync failed", err)
				}
				return report(cmd, opts, p, FileChange{Op: string(files.OpDelete), Path: path})
			})
		},
	}
}

func newFilesMoveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "mv OLD NEW",
		Aliases: []string{"rename"},
		Short:   "Rename a file",
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPath, newPath := args[0], args[1]
			if err := checkPath(newPath); err != nil {
				return err
			}
			return withProject(cmd, opts, func(ctx context.Context, p *project) error {
				if _, ok := p.store.Lookup(oldPath); !ok {
					return ErrNotFound("file", oldPath)
				}
				if err := p.store.RenameFile(ctx, oldPath, newPath); err != nil {
					return NewCommandError("files", "mv", "sync failed", err)
				}
				return report(cmd, opts, p, FileChange{Op: string(files.OpRename), Path: oldPath, NewPath: newPath})
			})
		},
	}
}

func newFilesMkdirCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir PATH",
		Short: "Create a folder seeded with a placeholder file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSuffix(args[0], "/")
			if err := checkPath(path); err != nil {
				return err
			}
			return withProject(cmd, opts, func(ctx context.Context, p *project) error {
				if err := p.store.CreateFolder(ctx, path); err != nil {
					return NewCommandError("files", "mkdir", "sync failed", err)
				}
				return report(cmd, opts, p, FileChange{Op: string(files.OpFolder), Path: path})
			})
		},
	}
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

func newFilesExportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export DIR",
		Short: "Write every file of the table below DIR",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProject(cmd, opts, func(ctx context.Context, p *project) error {
				disk := mirror.NewDiskSyncer(args[0], p.store, p.log)
				if err := disk.Sync(ctx, false); err != nil {
					return NewCommandError("files", "export", "some files were not written", err)
				}
				return report(cmd, opts, p, FileChange{Op: "export", Path: args[0]})
			})
		},
	}
}

func newFilesImportCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import DIR",
		Short: "Replace the table with the files below DIR",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := readTree(args[0])
			if err != nil {
				return err
			}
			return withProject(cmd, opts, func(ctx context.Context, p *project) error {
				if err := p.store.SetFiles(ctx, entries); err != nil {
					return NewCommandError("files", "import", "sync failed", err)
				}
				p.log.Info("Files imported", zap.String("dir", args[0]), zap.Int("files", len(entries)))
				return report(cmd, opts, p, FileChange{Op: string(files.OpSet), Path: args[0]})
			})
		},
	}
}

// readTree collects the regular files below dir as table entries with
// "/"-separated relative paths. Leftover temp files of atomic writes are
// skipped.
func readTree(dir string) ([]files.Entry, error) {
	var entries []files.Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, files.Entry{Path: filepath.ToSlash(rel), Content: string(data)})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound("directory", dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	return entries, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// checkPath rejects paths the table cannot represent.
func checkPath(path string) error {
	if path == "" || strings.HasPrefix(path, "/") {
		return &usageError{err: fmt.Errorf("invalid path %q: paths are relative", path)}
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." || part == ".." {
			return &usageError{err: fmt.Errorf("invalid path %q", path)}
		}
	}
	return nil
}

// matchesAny reports whether path names a file or a folder of paths.
func matchesAny(paths []string, path string) bool {
	for _, p := range paths {
		if p == path || strings.HasPrefix(p, path+"/") {
			return true
		}
	}
	return false
}

func report(cmd *cobra.Command, opts *options, p *project, c FileChange) error {
	c.Files = p.store.Len()
	if opts.jsonMode {
		return NewJSONResponse("files "+c.Op, c).Write(cmd.OutOrStdout())
	}
	target := c.Path
	if c.NewPath != "" {
		target += " -> " + c.NewPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", SuccessStyle.Render("ok"), c.Op, target)
	return nil
}
