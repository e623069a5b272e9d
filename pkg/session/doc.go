/*
Package session implements per-tab navigation session orchestration for server adapters.

The Manager serializes access to each session with a reference counted in-process mutex
and, when configured, a distributed lock shared by every server replica. Server adapters
load a session, apply one navigator transition and save it back inside WithLock. Script
generation releases the lock during the AI round trip and commits in a second locked step.
*/
package session
