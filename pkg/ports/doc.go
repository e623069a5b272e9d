/*
Package ports defines the driven ports (interfaces) of the pathfinder core.

These interfaces decouple navigation and assistants from external implementations,
so the same core runs against Gemini or a stub, and against Redis or process memory.

# Key Interfaces

  - TextService: plain text completion used by the script trigger.
  - StructuredService: prompt (plus optional images and schema) to JSON, used by assistants.
  - LogSink: receives exactly one audit record per assistant call.
  - FlowLoader: produces a validated flow graph (YAML file, embedded catalog).
  - SessionStore: keeps per-tab navigation sessions for server adapters.
  - DistributedLocker: provides distributed locking for handling concurrent session access.
*/
package ports
