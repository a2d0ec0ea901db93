// Package agent contains the capability agents LeadMesh orchestrates and the
// shared plumbing they embed. The package focuses on three concerns:
//
//  1. Base identity + caching + validation plumbing (BaseAgent)
//  2. Concrete capability agents (ContactAgent, MessagingAgent,
//     SchedulingAgent, CampaignAgent), each exposing one typed method per
//     action so dispatch stays statically checkable
//  3. The agent-boundary error discipline: operations never propagate raw
//     errors to the orchestrator; failures are converted into core.Result
//     values tagged with the agent name and a timestamp
//
// Design principles:
//   - Minimal hidden global state: external services injected per agent
//   - Agent-local caching: each agent owns a private TTL cache, never shared
//   - Observability: agents accept a logging.Logger (NoOp by default)
//
// Persistence, session lifecycle and workflow sequencing live in the session
// and orchestrator packages to avoid cyclic deps.
package agent
