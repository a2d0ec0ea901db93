// Package leadmesh provides a high-level façade over the orchestrator,
// session manager and service abstractions (identity, calendar, messenger,
// tracking & logging) enabling rapid construction of lead-intake workflow
// systems. Most applications interact with this package by:
//  1. Creating a LeadMesh via New() (optionally overriding default in-memory services)
//  2. Driving conversations through Sessions() (contact collection, messages, cleanup)
//  3. Invoking workflows directly through Orchestrator() when no session is involved
//
// All defaults are safe for local development and testing; production
// deployments supply real service clients and a structured logger.
package leadmesh

import (
	"context"

	"github.com/leadmesh/leadmesh/agent"
	"github.com/leadmesh/leadmesh/calendar"
	"github.com/leadmesh/leadmesh/config"
	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/dedup"
	"github.com/leadmesh/leadmesh/identity"
	"github.com/leadmesh/leadmesh/logging"
	"github.com/leadmesh/leadmesh/messenger"
	"github.com/leadmesh/leadmesh/orchestrator"
	"github.com/leadmesh/leadmesh/session"
	"github.com/leadmesh/leadmesh/tracking"
)

// Options configures the LeadMesh instance.
type Options struct {
	// Config tunes timeouts, sweep behavior and topic placeholders.
	Config config.Config

	// Services (default to in-memory implementations if not provided).
	Identity  core.IdentityService
	Calendar  core.CalendarService
	Messenger core.MessengerService
	Tracker   core.Tracker

	// CampaignRules overrides the default campaign rule table.
	CampaignRules []agent.CampaignRule
	// Topics overrides the default topic template pool.
	Topics []dedup.TopicRecord

	// Logger overrides the default logger. When nil, New builds a
	// LeadMeshLogger from Config.Logging.
	Logger logging.Logger
}

// LeadMesh is the high-level façade aggregating the orchestrator, session
// manager and topic selector.
type LeadMesh struct {
	cfg      config.Config
	orch     *orchestrator.Orchestrator
	sessions *session.Manager
	topics   *dedup.Selector
	logger   logging.Logger
}

// New creates a new LeadMesh instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *LeadMesh {
	opts := Options{
		Config:        config.Default(),
		Identity:      identity.NewInMemoryService(),
		Calendar:      calendar.NewInMemoryService(),
		Messenger:     messenger.NewInMemoryService(),
		Tracker:       tracking.NewInMemoryTracker(),
		CampaignRules: agent.DefaultCampaignRules,
		Topics:        dedup.DefaultTopics,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewSlogLogger(logging.ParseLevel(opts.Config.Logging.Level), opts.Config.Logging.Format, false)
	}

	contactAgent := agent.NewContactAgent(opts.Identity)
	messagingAgent := agent.NewMessagingAgent(opts.Messenger)
	schedulingAgent := agent.NewSchedulingAgent(opts.Calendar)
	campaignAgent := agent.NewCampaignAgentWithRules(opts.Identity, opts.CampaignRules)
	for _, a := range []interface{ SetLogger(logging.Logger) }{contactAgent, messagingAgent, schedulingAgent, campaignAgent} {
		a.SetLogger(opts.Logger)
	}

	orch := orchestrator.New(orchestrator.Deps{
		Contact:    contactAgent,
		Messaging:  messagingAgent,
		Scheduling: schedulingAgent,
		Campaign:   campaignAgent,
		Tracker:    opts.Tracker,
	}, func(o *orchestrator.Options) {
		o.StepTimeout = opts.Config.Orchestrator.StepTimeout
		o.Logger = opts.Logger
	})

	sessions := session.NewManager(orch, func(o *session.Options) {
		o.Logger = opts.Logger
	})

	topics := dedup.NewSelector(opts.Topics, func(o *dedup.Options) {
		o.Locations = opts.Config.Topics.Locations
		o.Logger = opts.Logger
	})

	return &LeadMesh{cfg: opts.Config, orch: orch, sessions: sessions, topics: topics, logger: opts.Logger}
}

// Logger returns the logger the instance was wired with.
func (m *LeadMesh) Logger() logging.Logger { return m.logger }

// Orchestrator returns the workflow coordinator.
func (m *LeadMesh) Orchestrator() *orchestrator.Orchestrator { return m.orch }

// Sessions returns the session manager.
func (m *LeadMesh) Sessions() *session.Manager { return m.sessions }

// Topics returns the topic selector.
func (m *LeadMesh) Topics() *dedup.Selector { return m.topics }

// StartSweeper launches the background session sweep with the configured
// interval and idle threshold. It stops when ctx is cancelled.
func (m *LeadMesh) StartSweeper(ctx context.Context) {
	m.sessions.StartSweeper(ctx, m.cfg.Sessions.SweepInterval, m.cfg.Sessions.MaxIdle)
}
