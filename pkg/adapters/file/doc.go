/*
Package file loads flows from declarative YAML documents.

	flow: delivery-resolution
	categories:
	  - id: late
	    title: "1. Driver is late"
	    options:
	      - divider: "What does the store want?"
	      - id: reassign
	        title: "Reassign the order"
	        final: true
	        content:
	          block: steps
	          items: ["Open the admin panel", "Reassign to another carrier"]

A string title or content is plain text (markdown allowed). A mapping with a block
key is a rich block of that kind; its other keys become the block fields. An option
with a divider key is a section separator. Unknown keys are rejected and the decoded
forest is validated by flow.New, so authoring errors fail at load time.
*/
package file
