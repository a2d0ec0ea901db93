package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadmesh/leadmesh/core"
)

// CampaignRule maps a trigger or a set of data conditions to a campaign.
// Lower Priority numbers win among condition matches.
type CampaignRule struct {
	Trigger    string
	Conditions map[string]string
	Campaign   string
	Priority   int
	Default    bool
}

// DefaultCampaignRules is the rule table shipped with LeadMesh. An exact
// trigger match wins outright; otherwise the lowest-priority rule whose
// conditions all match is chosen; the default ("new lead") campaign backstops
// everything else.
var DefaultCampaignRules = []CampaignRule{
	{Trigger: "hot_lead", Campaign: "hot lead fast response", Priority: 1},
	{Trigger: "appointment_booked", Campaign: "appointment confirmation", Priority: 2},
	{Trigger: "follow_up", Campaign: "post conversation follow-up", Priority: 3},
	{Conditions: map[string]string{"urgency": "high"}, Campaign: "hot lead fast response", Priority: 1},
	{Conditions: map[string]string{"practice_area": "immigration"}, Campaign: "immigration nurture", Priority: 5},
	{Conditions: map[string]string{"practice_area": "personal_injury"}, Campaign: "personal injury nurture", Priority: 5},
	{Conditions: map[string]string{"practice_area": "family_law"}, Campaign: "family law nurture", Priority: 5},
	{Campaign: "new lead", Priority: 100, Default: true},
}

var _ core.Agent = (*CampaignAgent)(nil)

// CampaignAgent selects marketing campaigns from a priority-ordered rule
// table and enrolls contacts through the identity service.
type CampaignAgent struct {
	BaseAgent
	identity core.IdentityService
	rules    []CampaignRule
}

// NewCampaignAgent creates a CampaignAgent with the default rule table.
func NewCampaignAgent(identity core.IdentityService) *CampaignAgent {
	return NewCampaignAgentWithRules(identity, DefaultCampaignRules)
}

// NewCampaignAgentWithRules creates a CampaignAgent with a custom rule table.
// The table should contain a default entry to keep selection total.
func NewCampaignAgentWithRules(identity core.IdentityService, rules []CampaignRule) *CampaignAgent {
	return &CampaignAgent{
		BaseAgent: NewBaseAgent(
			"campaign",
			"Selects and triggers marketing campaigns from a rule table",
			"campaign", "marketing", "nurture", "trigger",
		),
		identity: identity,
		rules:    rules,
	}
}

// Select resolves the target campaign for a trigger name and input data.
// Selection is total whenever the table holds a default entry: an exact
// trigger-name match wins first, otherwise the lowest-priority-number rule
// whose condition key/value pairs all match the data, otherwise the default.
func (a *CampaignAgent) Select(trigger string, data map[string]string) CampaignRule {
	for _, rule := range a.rules {
		if rule.Trigger != "" && rule.Trigger == trigger {
			return rule
		}
	}

	var best *CampaignRule
	for i := range a.rules {
		rule := &a.rules[i]
		if len(rule.Conditions) == 0 {
			continue
		}
		if !conditionsMatch(rule.Conditions, data) {
			continue
		}
		if best == nil || rule.Priority < best.Priority {
			best = rule
		}
	}
	if best != nil {
		return *best
	}

	for _, rule := range a.rules {
		if rule.Default {
			return rule
		}
	}
	// Table without a default entry; totality is the table author's duty.
	return CampaignRule{Campaign: "new lead", Default: true}
}

func conditionsMatch(conditions map[string]string, data map[string]string) bool {
	for k, v := range conditions {
		if data[k] != v {
			return false
		}
	}
	return true
}

// TriggerRequest asks for a campaign enrollment. ContactID may be empty when
// the context metadata carries one; Data feeds rule-condition matching.
type TriggerRequest struct {
	ContactID string
	Trigger   string
	Data      map[string]string
}

// Trigger selects a campaign for the request and enrolls the contact in it.
func (a *CampaignAgent) Trigger(ctx context.Context, wctx *core.Context, req TriggerRequest) core.Result {
	return a.run("trigger", func() (core.Result, error) {
		contactID := req.ContactID
		if contactID == "" {
			contactID = wctx.MetaString(core.MetaContactID)
		}
		if contactID == "" {
			return core.Result{}, core.ErrMissingContactID
		}
		rule := a.Select(req.Trigger, req.Data)
		if rule.Campaign == "" {
			return core.Result{}, errors.New("campaign: selection produced no campaign")
		}
		props := map[string]any{"trigger": req.Trigger}
		for k, v := range req.Data {
			props[k] = v
		}
		enrollmentID, err := a.identity.EnrollCampaign(ctx, contactID, rule.Campaign, props)
		if err != nil {
			return core.Result{}, fmt.Errorf("enrolling campaign %q: %w", rule.Campaign, err)
		}
		return core.Ok(map[string]any{
			"campaign":      rule.Campaign,
			"enrollment_id": enrollmentID,
			"contact_id":    contactID,
		}), nil
	})
}
