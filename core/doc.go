// Package core defines the shared contracts of LeadMesh: the per-workflow
// Context, agent result and step-record types, the Session aggregate, and the
// interfaces for the external services (CRM identity, calendar, messenger,
// tracking) the agents orchestrate.
//
// Concrete implementations live in their own packages (identity, calendar,
// messenger, tracking provide in-memory variants) so that domain contracts
// stay centralized while backends remain pluggable without dependency cycles.
package core
