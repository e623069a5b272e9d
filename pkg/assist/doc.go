/*
Package assist implements the single-shot support assistants that sit next to the
delivery resolution flow: store presence analysis, operations audits with root cause
summaries, menu extraction and cross-checking, and email drafting.

Every call sends one prompt to a generative backend and records exactly one audit entry,
"Success" or "Error: <message>". Input validation failures are returned before any call
and are not audited.
*/
package assist
