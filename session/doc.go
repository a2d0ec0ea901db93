// Package session owns conversation lifecycle: the Manager keeps exactly one
// core.Session per session identifier (create-if-absent), serializes compound
// mutations of the same session on a per-id lock, drives the orchestrator's
// workflows from contact collection and message handling, and guarantees that
// every session, whether ended explicitly or swept for inactivity, is
// finalized with a summary before removal.
//
// ParseContactInfo is a pure extraction helper over free text using
// language-specific regular-expression families for email, phone and name.
package session
