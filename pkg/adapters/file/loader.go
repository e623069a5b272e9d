package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/supportkit/pathfinder/pkg/domain"
	"github.com/supportkit/pathfinder/pkg/flow"
	"gopkg.in/yaml.v3"
)

// Document is a decoded flow file.
type Document struct {
	Name  string
	Graph *flow.Graph
}

type document struct {
	Flow       string    `yaml:"flow"`
	Categories []nodeDTO `yaml:"categories"`
}

type nodeDTO struct {
	ID          string     `yaml:"id"`
	Title       contentDTO `yaml:"title"`
	Description string     `yaml:"description"`
	Content     contentDTO `yaml:"content"`
	Options     []entryDTO `yaml:"options"`
	Final       bool       `yaml:"final"`
}

type entryDTO struct {
	Divider *string `yaml:"divider"`
	nodeDTO `yaml:",inline"`
}

// contentDTO accepts either a scalar or a block mapping.
type contentDTO struct {
	value domain.Content
}

func (c *contentDTO) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		c.value = domain.PlainText(s)
		return nil
	case yaml.MappingNode:
		var fields map[string]any
		if err := node.Decode(&fields); err != nil {
			return err
		}
		kind, ok := fields["block"].(string)
		if !ok || kind == "" {
			return fmt.Errorf("line %d: content mapping needs a string 'block' key", node.Line)
		}
		delete(fields, "block")
		c.value = domain.RichBlock{Kind: kind, Fields: fields}
		return nil
	}
	return fmt.Errorf("line %d: content must be a string or a block mapping", node.Line)
}

// Decode parses and validates a flow document.
func Decode(r io.Reader) (Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("empty flow document: %w", flow.ErrNoCategories)
		}
		return Document{}, fmt.Errorf("failed to parse flow: %w", err)
	}

	roots := make([]*domain.Node, len(doc.Categories))
	for i := range doc.Categories {
		roots[i] = doc.Categories[i].toDomain()
	}

	g, err := flow.New(roots...)
	if err != nil {
		return Document{}, fmt.Errorf("invalid flow %q: %w", doc.Flow, err)
	}
	return Document{Name: doc.Flow, Graph: g}, nil
}

// Parse decodes a flow document held in memory.
func Parse(data []byte) (*flow.Graph, error) {
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return doc.Graph, nil
}

func (n *nodeDTO) toDomain() *domain.Node {
	node := &domain.Node{
		ID:          n.ID,
		Title:       n.Title.value,
		Description: n.Description,
		Content:     n.Content.value,
		Final:       n.Final,
		Entries:     make([]domain.Entry, 0, len(n.Options)),
	}
	for i := range n.Options {
		opt := &n.Options[i]
		if opt.Divider != nil {
			node.Entries = append(node.Entries, domain.Divider{Title: *opt.Divider})
			continue
		}
		node.Entries = append(node.Entries, domain.Choice{Node: opt.nodeDTO.toDomain()})
	}
	return node
}

// Loader implements ports.FlowLoader over a file on disk or in an fs.FS.
type Loader struct {
	fsys fs.FS
	name string
	doc  string
}

// NewLoader reads the flow from a path on the local filesystem.
func NewLoader(path string) *Loader {
	return &Loader{name: path}
}

// NewFSLoader reads the flow from name inside fsys (e.g. an embed.FS).
func NewFSLoader(fsys fs.FS, name string) *Loader {
	return &Loader{fsys: fsys, name: name}
}

// LoadFlow reads, parses and validates the flow.
func (l *Loader) LoadFlow() (*flow.Graph, error) {
	var data []byte
	var err error
	if l.fsys != nil {
		data, err = fs.ReadFile(l.fsys, l.name)
	} else {
		data, err = os.ReadFile(l.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}

	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.name, err)
	}
	l.doc = doc.Name
	return doc.Graph, nil
}

// Name returns the flow name declared by the last successfully loaded document.
func (l *Loader) Name() string {
	return l.doc
}
