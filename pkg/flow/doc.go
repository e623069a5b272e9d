/*
Package flow holds the immutable decision forest navigated by operators.

A Graph is built once from hand-authored root nodes (through the dsl package or the
YAML file adapter), validated, and then only read. Resolution is total: a path that
stops matching degrades to a nil node and a breadcrumb ending in the raw id, so a
renamed or mistyped id never breaks the caller.

	g, err := flow.New(roots...)
	node, titles := g.Resolve(domain.Path{"late", "manual-call"})
*/
package flow
