// Package codec encodes store snapshots for files: JSON (the default) and
// YAML, where each namespace becomes a readable YAML tree.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/shelf/pkg/core"
)

// Codec reads and writes snapshots.
type Codec interface {
	Name() string
	Encode(w io.Writer, snap *core.Snapshot) error
	Decode(r io.Reader) (*core.Snapshot, error)
}

// ForName returns the codec called name ("json", "yaml" or "yml").
func ForName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "json":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot format: %s", name)
	}
}

// ForPath picks the codec from a file extension, defaulting to JSON.
func ForPath(path string) Codec {
	c, err := ForName(filepath.Ext(path))
	if err != nil {
		return JSON{}
	}
	return c
}

// JSON is the default snapshot codec.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Encode(w io.Writer, snap *core.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func (JSON) Decode(r io.Reader) (*core.Snapshot, error) {
	var snap core.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode json snapshot: %w", err)
	}
	return &snap, nil
}

// YAML encodes snapshots as YAML documents.
type YAML struct{}

type yamlSnapshot struct {
	Version    string                `yaml:"version"`
	ExportedAt time.Time             `yaml:"exportedAt"`
	Namespaces map[string]*yaml.Node `yaml:"namespaces"`
}

func (YAML) Name() string { return "yaml" }

func (YAML) Encode(w io.Writer, snap *core.Snapshot) error {
	out := yamlSnapshot{
		Version:    snap.Version,
		ExportedAt: snap.ExportedAt,
		Namespaces: make(map[string]*yaml.Node, len(snap.Namespaces)),
	}
	for ns, raw := range snap.Namespaces {
		// JSON is valid YAML, so the blob parses straight into a node tree.
		var doc yaml.Node
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("namespace %q: %w", ns, err)
		}
		node := &doc
		if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
			node = doc.Content[0]
		}
		blockStyle(node)
		out.Namespaces[ns] = node
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func (YAML) Decode(r io.Reader) (*core.Snapshot, error) {
	var in struct {
		Version    string               `yaml:"version"`
		ExportedAt time.Time            `yaml:"exportedAt"`
		Namespaces map[string]yaml.Node `yaml:"namespaces"`
	}
	if err := yaml.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to decode yaml snapshot: %w", err)
	}

	snap := &core.Snapshot{
		Version:    in.Version,
		ExportedAt: in.ExportedAt,
		Namespaces: make(map[string]json.RawMessage, len(in.Namespaces)),
	}
	for ns, node := range in.Namespaces {
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("namespace %q: %w", ns, err)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("namespace %q: %w", ns, err)
		}
		snap.Namespaces[ns] = raw
	}
	return snap, nil
}

// blockStyle drops the flow style and string quoting inherited from JSON
// input. The encoder re-quotes strings that would otherwise change type.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style &^= yaml.FlowStyle
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			n.Style &^= yaml.DoubleQuotedStyle | yaml.SingleQuotedStyle
		}
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
