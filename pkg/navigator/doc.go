/*
Package navigator implements the operator-facing state machine over a flow.Graph.

A Navigator owns one path through the forest. Select, Back and Reset are the only
transitions; each clears the last generated script and advances an epoch counter.
State derives the current node, breadcrumb and options on demand.

A Trigger turns the breadcrumb of a terminal step into a communication script through
a ports.TextService. The network round trip happens outside the navigator lock: the
navigator hands out a Ticket, the Trigger runs the call, and the result is committed
only if the epoch in the ticket still matches. A result for a path the operator has
left is dropped.

	nav := navigator.New(graph)
	nav.Select("late")
	nav.Select("manual-call")

	trig := navigator.NewTrigger(gemini, journal)
	out := trig.Generate(ctx, nav)
*/
package navigator
