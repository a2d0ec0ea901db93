package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/leadmesh/leadmesh/agent"
	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/logging"
)

// Deps bundles the injected agent instances and the tracker. All fields are
// required; the orchestrator holds exactly one instance of each agent.
type Deps struct {
	Contact    *agent.ContactAgent
	Messaging  *agent.MessagingAgent
	Scheduling *agent.SchedulingAgent
	Campaign   *agent.CampaignAgent
	Tracker    core.Tracker
}

// Options holds configuration overrides passed to New.
type Options struct {
	// StepTimeout bounds each workflow step; a timeout is recorded as a step
	// failure, never thrown.
	StepTimeout time.Duration
	// Logger receives workflow and step telemetry.
	Logger logging.Logger
}

// Orchestrator coordinates the capability agents through four named
// workflows. Each workflow creates step records in execution order and keeps
// going past individual failures; only steps whose precondition was not met
// are skipped. Public methods are safe for concurrent use.
type Orchestrator struct {
	contact    *agent.ContactAgent
	messaging  *agent.MessagingAgent
	scheduling *agent.SchedulingAgent
	campaign   *agent.CampaignAgent
	tracker    core.Tracker

	stepTimeout time.Duration
	logger      logging.Logger
}

// New constructs an Orchestrator with optional overrides.
func New(deps Deps, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		StepTimeout: 10 * time.Second,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		contact:     deps.Contact,
		messaging:   deps.Messaging,
		scheduling:  deps.Scheduling,
		campaign:    deps.Campaign,
		tracker:     deps.Tracker,
		stepTimeout: opts.StepTimeout,
		logger:      opts.Logger,
	}
}

// Messaging exposes the messaging agent for callers that need its pure
// summarizer or conversation lookup.
func (o *Orchestrator) Messaging() *agent.MessagingAgent { return o.messaging }

// step runs one agent call under the per-step timeout, recording elapsed
// time. A deadline hit is converted into a failed result on the record.
func (o *Orchestrator) step(ctx context.Context, name string, fn func(ctx context.Context) core.Result) core.StepRecord {
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan core.Result, 1)
	go func() { done <- fn(stepCtx) }()

	var res core.Result
	select {
	case res = <-done:
	case <-stepCtx.Done():
		res = core.Failf(fmt.Sprintf("%s: step aborted: %v", name, stepCtx.Err()))
	}
	rec := core.StepRecord{Agent: name, Result: res, Duration: time.Since(start)}
	o.logger.Debug("workflow step finished", "agent", name, "success", res.Success, "duration", rec.Duration)
	return rec
}

// skipped records a step that was not attempted because its precondition
// (usually a resolved contact id) was unmet.
func skipped(name, reason string) core.StepRecord {
	return core.StepRecord{
		Agent:  name,
		Result: core.Result{Success: false, Error: "skipped: " + reason, Metadata: map[string]any{"skipped": true}},
	}
}

// LeadInput describes a new lead to ingest. Urgency and PracticeArea seed
// the campaign rule table.
type LeadInput struct {
	Profile      core.ContactProfile
	Urgency      string
	PracticeArea string
	Source       string
}

// IngestLead runs the lead intake workflow: upsert the contact, attach the
// external contact id to the context, ensure a conversation, select and
// trigger a campaign, and fire a lead_created tracking event. All step
// records are returned regardless of individual outcomes.
func (o *Orchestrator) IngestLead(ctx context.Context, wctx *core.Context, lead LeadInput) []core.StepRecord {
	start := time.Now()
	records := make([]core.StepRecord, 0, 4)

	records = append(records, o.step(ctx, o.contact.Name(), func(c context.Context) core.Result {
		return o.contact.Upsert(c, wctx, agent.UpsertRequest{Profile: lead.Profile})
	}))
	contactID := wctx.MetaString(core.MetaContactID)

	if ctx.Err() == nil {
		if contactID == "" {
			records = append(records, skipped(o.messaging.Name(), "no contact id resolved"))
		} else {
			records = append(records, o.step(ctx, o.messaging.Name(), func(c context.Context) core.Result {
				return o.messaging.EnsureConversation(c, wctx)
			}))
		}
	}

	if ctx.Err() == nil {
		if contactID == "" {
			records = append(records, skipped(o.campaign.Name(), "no contact id resolved"))
		} else {
			records = append(records, o.step(ctx, o.campaign.Name(), func(c context.Context) core.Result {
				return o.campaign.Trigger(c, wctx, agent.TriggerRequest{
					Data: map[string]string{
						"urgency":       lead.Urgency,
						"practice_area": lead.PracticeArea,
					},
				})
			}))
		}
	}

	// Fire-and-forget; the trace records the dispatch, not the delivery.
	records = append(records, o.track(wctx, "lead_created", map[string]any{
		"contact_id":    contactID,
		"source":        lead.Source,
		"practice_area": lead.PracticeArea,
	}))

	o.logWorkflow("ingest_lead", records, start)
	return records
}

// AppointmentRequest describes an appointment to check and book.
type AppointmentRequest struct {
	ContactID string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, 24h
	Type      string // consultation, follow_up or intake
}

// HandleAppointmentRequest checks availability, short-circuiting into an
// alternative-slot fetch when the requested slot is taken, otherwise books
// and follows up with a confirmation campaign and a system message. The
// early return on unavailability is deliberate: booking without availability
// is meaningless.
func (o *Orchestrator) HandleAppointmentRequest(ctx context.Context, wctx *core.Context, req AppointmentRequest) []core.StepRecord {
	start := time.Now()
	records := make([]core.StepRecord, 0, 4)

	_, length := agent.AppointmentDuration(req.Type)
	duration := int(length.Minutes())
	check := o.step(ctx, o.scheduling.Name(), func(c context.Context) core.Result {
		return o.scheduling.CheckAvailability(c, wctx, agent.AvailabilityRequest{Date: req.Date, DurationMin: duration})
	})
	records = append(records, check)

	if check.Result.Success && !check.Result.Bool("available") {
		records = append(records, o.step(ctx, o.scheduling.Name(), func(c context.Context) core.Result {
			return o.scheduling.GetSlots(c, wctx, agent.SlotsRequest{StartDate: req.Date})
		}))
		o.logWorkflow("handle_appointment", records, start)
		return records
	}

	book := o.step(ctx, o.scheduling.Name(), func(c context.Context) core.Result {
		return o.scheduling.Book(c, wctx, agent.BookingRequest{
			ContactID: req.ContactID,
			Date:      req.Date,
			Time:      req.Time,
			Type:      req.Type,
		})
	})
	records = append(records, book)

	if book.Result.Success && ctx.Err() == nil {
		records = append(records, o.step(ctx, o.campaign.Name(), func(c context.Context) core.Result {
			return o.campaign.Trigger(c, wctx, agent.TriggerRequest{Trigger: "appointment_booked"})
		}))
		records = append(records, o.step(ctx, o.messaging.Name(), func(c context.Context) core.Result {
			return o.messaging.Send(c, wctx, agent.SendRequest{
				Role: "system",
				Text: fmt.Sprintf("Appointment booked for %s at %s.", req.Date, req.Time),
			})
		}))
	}

	o.logWorkflow("handle_appointment", records, start)
	return records
}

// MessageInput is one inbound or outbound conversation message.
type MessageInput struct {
	Role string
	Text string
}

// HandleMessage appends the message to the session's conversation and runs
// the intent classifier over its text, performing one bounded side effect per
// distinct intent. Only the conversation-append record is returned; intent
// side effects are notifications, not the primary outcome, and failures there
// are logged and dropped.
func (o *Orchestrator) HandleMessage(ctx context.Context, wctx *core.Context, msg MessageInput) core.StepRecord {
	rec := o.step(ctx, o.messaging.Name(), func(c context.Context) core.Result {
		return o.messaging.Send(c, wctx, agent.SendRequest{Role: msg.Role, Text: msg.Text})
	})

	for _, intent := range Intents(msg.Text) {
		if ctx.Err() != nil {
			break
		}
		o.applyIntent(ctx, wctx, intent)
	}
	return rec
}

func (o *Orchestrator) applyIntent(ctx context.Context, wctx *core.Context, intent Intent) {
	switch intent {
	case IntentAppointment:
		if err := o.tracker.Track(ctx, "appointment_interest", map[string]any{"session_id": wctx.SessionID}); err != nil {
			o.logger.Warn("tracking appointment interest failed", "error", err)
		}
	case IntentUrgent:
		res := o.step(ctx, o.campaign.Name(), func(c context.Context) core.Result {
			return o.campaign.Trigger(c, wctx, agent.TriggerRequest{Trigger: "hot_lead"})
		})
		if !res.Result.Success {
			o.logger.Warn("hot lead campaign trigger failed", "error", res.Result.Error)
		}
	default:
		tag, ok := practiceAreaIntents[intent]
		if !ok {
			return
		}
		res := o.step(ctx, o.contact.Name(), func(c context.Context) core.Result {
			return o.contact.AddTags(c, wctx, agent.TagRequest{Tags: []string{tag}})
		})
		if !res.Result.Success {
			o.logger.Debug("practice area tagging skipped", "intent", intent, "error", res.Result.Error)
		}
	}
}

// EndInput carries the conversation-end state: an optional caller-supplied
// summary and the session's message history.
type EndInput struct {
	Summary  string
	Messages []core.Message
}

// EndConversation finalizes a conversation: synthesizes a summary when none
// was supplied and history exists, ends the conversation with the summary as
// a final system message, pushes the summary into the contact's notes when a
// contact id exists, and conditionally triggers a follow-up campaign. The
// resolved summary is returned alongside the step records.
func (o *Orchestrator) EndConversation(ctx context.Context, wctx *core.Context, end EndInput) (string, []core.StepRecord) {
	start := time.Now()
	records := make([]core.StepRecord, 0, 3)

	summary := end.Summary
	if summary == "" && len(end.Messages) > 0 {
		summary = o.messaging.Summarize(end.Messages).Text
	}

	records = append(records, o.step(ctx, o.messaging.Name(), func(c context.Context) core.Result {
		return o.messaging.End(c, wctx, agent.EndRequest{Summary: summary})
	}))

	contactID := wctx.MetaString(core.MetaContactID)
	if contactID != "" && summary != "" && ctx.Err() == nil {
		records = append(records, o.step(ctx, o.contact.Name(), func(c context.Context) core.Result {
			return o.contact.AddNote(c, wctx, agent.NoteRequest{Note: "Conversation summary: " + summary})
		}))
	}

	if ctx.Err() == nil && ShouldFollowUp(wctx.MetaBool(core.MetaAppointmentBooked), contactID, len(end.Messages)) {
		records = append(records, o.step(ctx, o.campaign.Name(), func(c context.Context) core.Result {
			return o.campaign.Trigger(c, wctx, agent.TriggerRequest{Trigger: "follow_up"})
		}))
	}

	o.logWorkflow("end_conversation", records, start)
	return summary, records
}

// track dispatches a fire-and-forget tracking event and returns the dispatch
// record.
func (o *Orchestrator) track(wctx *core.Context, event string, props map[string]any) core.StepRecord {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.stepTimeout)
		defer cancel()
		if err := o.tracker.Track(ctx, event, props); err != nil {
			o.logger.Warn("tracking event failed", "event", event, "error", err)
		}
	}()
	return core.StepRecord{
		Agent:  "tracking",
		Result: core.Ok(map[string]any{"event": event, "dispatched": true}),
	}
}

func (o *Orchestrator) logWorkflow(name string, records []core.StepRecord, start time.Time) {
	failed := 0
	for _, r := range records {
		if !r.Result.Success {
			failed++
		}
	}
	o.logger.Info("workflow finished", "workflow", name, "steps", len(records), "failed", failed, "duration", time.Since(start))
}
