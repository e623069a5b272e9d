/*
Package dsl provides a Go DSL (Domain Specific Language) for authoring pathfinder flows.

It allows developers to define decision trees using a type-safe, fluent builder pattern
instead of relying on an external YAML file. This is particularly useful for unit
testing and for flows that are generated from code.

Example usage:

	b := dsl.New()

	b.Add("late", "1. Driver is late").
		Describe("Store waited too long").
		Option(
			dsl.Node("wrong-phone", "Wrong phone number").Final(),
			dsl.Node("reassign", "Reassign the order").
				Steps("Call the store", "Open the ticket").
				Final(),
		)

	graph, err := b.Build()
	// ... pass graph to pathfinder.New(...)
*/
package dsl
