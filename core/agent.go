package core

// Agent is the identity contract every capability agent implements.
//
// Dispatch is intentionally not part of this interface: each concrete agent
// exposes typed operations (one method per action) and the orchestrator calls
// them explicitly, so action handling stays statically checkable. CanHandle
// is a coarse routing aid only (a case-insensitive substring match of a task
// description against the declared capability tokens) and must never be the
// primary dispatch mechanism.
type Agent interface {
	Name() string
	Description() string
	Capabilities() []string
	CanHandle(task string) bool
}
