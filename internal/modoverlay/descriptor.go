// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package modoverlay

import (
	"strings"

	"github.com/pdxcore/atlas/cerrs"
	"github.com/pdxcore/atlas/internal/script"
)

// Descriptor is a parsed .mod file, per spec §4.8.
type Descriptor struct {
	Name             string
	Path             string
	Archive          string
	Version          string
	SupportedVersion string
	Tags             []string
	Dependencies     []string
	ReplacePaths     []string
}

// ParseDescriptor parses a .mod file's bytes into a Descriptor.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	root, _, err := script.Parse(data, script.Options{})
	if err != nil {
		return nil, err
	}
	if root == nil || root.Kind != script.Object {
		return nil, cerrs.ErrModDescriptorInvalid
	}

	d := &Descriptor{}
	for _, key := range root.OrderedKeys() {
		child := root.Get(key)
		switch strings.ToLower(key) {
		case "name":
			d.Name = scalarStr(child)
		case "path":
			d.Path = scalarStr(child)
		case "archive":
			d.Archive = scalarStr(child)
		case "version":
			d.Version = scalarStr(child)
		case "supported_version":
			d.SupportedVersion = scalarStr(child)
		case "tags":
			d.Tags = scalarListStrs(root, key)
		case "dependencies":
			d.Dependencies = scalarListStrs(root, key)
		case "replace_path":
			for _, v := range root.GetValues(key) {
				d.ReplacePaths = append(d.ReplacePaths, scalarStr(v))
			}
		}
	}
	if d.Name == "" || (d.Path == "" && d.Archive == "") {
		return nil, cerrs.ErrModDescriptorInvalid
	}
	return d, nil
}

func scalarStr(n *script.Node) string {
	if n == nil || n.Kind != script.Scalar {
		return ""
	}
	return n.Value.String()
}

// scalarListStrs reads key's value as either a List of scalars (the
// normal `tags = { "a" "b" }` shape) or, defensively, a single scalar.
func scalarListStrs(root *script.Node, key string) []string {
	child := root.Get(key)
	if child == nil {
		return nil
	}
	if child.Kind == script.List {
		out := make([]string, 0, len(child.Items))
		for _, item := range child.Items {
			out = append(out, scalarStr(item))
		}
		return out
	}
	if child.Kind == script.Scalar {
		return []string{scalarStr(child)}
	}
	return nil
}
