package flow

import (
	"errors"
	"fmt"

	"github.com/supportkit/pathfinder/pkg/domain"
)

type validator struct {
	seen map[*domain.Node]bool
	errs []error
}

func validate(roots []*domain.Node) error {
	if len(roots) == 0 {
		return ErrNoCategories
	}
	v := &validator{seen: make(map[*domain.Node]bool)}
	ids := make(map[string]bool, len(roots))
	for i, r := range roots {
		if r == nil {
			v.fail(nil, "category %d is nil", i)
			continue
		}
		if r.ID != "" && ids[r.ID] {
			v.fail(domain.Path{r.ID}, "duplicate category id")
		}
		ids[r.ID] = true
		v.node(domain.Path{r.ID}, r)
	}
	return errors.Join(v.errs...)
}

func (v *validator) fail(path domain.Path, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Path: path.Clone(), Reason: fmt.Sprintf(format, args...)})
}

func (v *validator) node(path domain.Path, n *domain.Node) {
	if v.seen[n] {
		// A second visit means the node is shared or part of a cycle; do not descend again.
		v.fail(path, "node is reachable by more than one path")
		return
	}
	v.seen[n] = true

	if n.ID == "" {
		v.fail(path, "empty id")
	}
	if n.Title == nil {
		v.fail(path, "missing title")
	} else if text, ok := domain.Text(n.Title); ok && text == "" {
		v.fail(path, "empty title")
	}

	hasChoices := n.HasChoices()
	switch {
	case n.Final && hasChoices:
		v.fail(path, "final node must not offer options")
	case !n.Final && !hasChoices:
		v.fail(path, "node is neither final nor offers options")
	}

	ids := make(map[string]bool, len(n.Entries))
	for i, e := range n.Entries {
		switch entry := e.(type) {
		case domain.Divider:
			if entry.Title == "" {
				v.fail(path, "divider %d has an empty title", i)
			}
		case domain.Choice:
			if entry.Node == nil {
				v.fail(path, "option %d has no node", i)
				continue
			}
			if entry.Node.ID != "" && ids[entry.Node.ID] {
				v.fail(append(path.Clone(), entry.Node.ID), "duplicate option id")
			}
			ids[entry.Node.ID] = true
			v.node(append(path.Clone(), entry.Node.ID), entry.Node)
		default:
			v.fail(path, "entry %d has unsupported type %T", i, e)
		}
	}
}
