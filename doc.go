/*
Package pathfinder guides delivery support operators through a decision tree of problem
categories to a resolution step, and drafts the message they send to the customer, store
or rider involved.

# Concept

A flow is an immutable forest of nodes (package flow). Each operator tab owns a Navigator
holding the path of chosen ids; everything shown on screen (breadcrumb, content, options)
is derived from that path on demand. When the path reaches a final step, the Trigger sends
the breadcrumb to a generative text service and stores the returned script on the navigator,
unless the operator moved on in the meantime.

Next to the flow, the assist package offers single-shot helpers (store presence analysis,
operations audits, menu checks, email drafts). Every AI call, from either side, is recorded in
the audit Journal.

# Usage

	eng, err := pathfinder.New(pathfinder.WithTextService(client))
	if err != nil {
		log.Fatal(err)
	}

	nav := eng.Navigator()
	nav.Select("late")
	nav.Select("action_needed")
	nav.Select("wrong_phone")

	out := eng.Generate(ctx, nav)
	fmt.Println(out.Result.Text)

Without WithGraph or WithLoader the engine serves the embedded delivery flow from package
catalog. Server adapters (pkg/adapters/http, pkg/adapters/mcp) persist navigators as
domain.Session values through pkg/session.
*/
package pathfinder
