package models

import (
	"encoding/json"
	"sort"
)

// Node is an entry of a repository file tree: either a Dir or a File.
type Node interface {
	isNode()
}

// Dir maps a path segment to its child node.
type Dir map[string]Node

// File marks a name as a regular file. It carries no content or stat data.
type File struct{}

func (Dir) isNode()  {}
func (File) isNode() {}

// MarshalJSON encodes a file leaf as null so trees serialise as
// {"src": {"main.go": null}}.
func (File) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalYAML encodes a file leaf as a YAML null.
func (File) MarshalYAML() (any, error) { return nil, nil }

// UnmarshalJSON decodes the {"dir": {...}, "file": null} form back into a Dir.
func (d *Dir) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Dir, len(raw))
	for name, v := range raw {
		if string(v) == "null" {
			out[name] = File{}
			continue
		}
		var child Dir
		if err := json.Unmarshal(v, &child); err != nil {
			return err
		}
		out[name] = child
	}
	*d = out
	return nil
}

// Subdir returns the child directory called name, creating it when absent.
// An existing file with the same name is replaced.
func (d Dir) Subdir(name string) Dir {
	if child, ok := d[name].(Dir); ok {
		return child
	}
	child := Dir{}
	d[name] = child
	return child
}

// Names returns the entry names in lexical order.
func (d Dir) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Counts returns the number of files and directories below d.
func (d Dir) Counts() (files, dirs int) {
	for _, n := range d {
		switch v := n.(type) {
		case Dir:
			dirs++
			f, sd := v.Counts()
			files += f
			dirs += sd
		case File:
			files++
		}
	}
	return files, dirs
}
