// Package orchestrator sequences the capability agents into the four caller
// facing workflows: ingest lead, handle appointment request, handle message,
// and end conversation. Each workflow runs a fixed ordered sequence of agent
// calls against one shared core.Context, records a core.StepRecord per call,
// and continues past individual step failures; only steps whose precondition
// (a resolved contact id) was not met are skipped.
//
// The Orchestrator is an explicit, constructed instance with injected agents;
// there is no global registry. Every step runs under a per-step timeout, and
// step boundaries double as cancellation checkpoints.
package orchestrator
