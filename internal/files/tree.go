// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import "strings"

// Node is a folder or file in the tree derived from the table's paths.
type Node struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*Node
}

// Tree builds the folder hierarchy of the table. Children keep the order in
// which their first path was inserted.
func (s *Store) Tree() *Node {
	return BuildTree(s.Paths())
}

// BuildTree builds a hierarchy from "/"-delimited paths.
func BuildTree(paths []string) *Node {
	root := &Node{IsDir: true}
	for _, p := range paths {
		parts := strings.Split(strings.Trim(p, "/"), "/")
		cur := root
		for i, name := range parts {
			if name == "" {
				continue
			}
			last := i == len(parts)-1
			child := cur.child(name)
			if child == nil {
				child = &Node{
					Name:  name,
					Path:  strings.Join(parts[:i+1], "/"),
					IsDir: !last,
				}
				cur.Children = append(cur.Children, child)
			} else if !last {
				// A path like "src" may be both a file and a folder prefix.
				child.IsDir = true
			}
			cur = child
		}
	}
	return root
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Walk visits n's descendants depth first. depth is 0 for direct children.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	for _, c := range n.Children {
		fn(c, depth)
		c.walk(fn, depth+1)
	}
}
