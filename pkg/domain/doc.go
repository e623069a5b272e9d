/*
Package domain contains the core types of the resolution flow engine.

It defines the authored flow model (Nodes, Entries, Content), the navigation path and the
derived view of a navigation session. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - Node: A step in a resolution flow (problem category, decision or terminal action).
  - Entry: An item of a node's option set, either a selectable Choice or a visual Divider.
  - Content: Either PlainText (markdown) or an opaque RichBlock payload.
  - Path: The ordered ids chosen by the operator, starting at a root category.
  - NavigatorState: The derived snapshot a UI renders after every transition.
  - Session: The serializable form of a navigation session, used by server adapters.
*/
package domain
