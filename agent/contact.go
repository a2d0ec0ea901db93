package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadmesh/leadmesh/core"
)

var _ core.Agent = (*ContactAgent)(nil)

// ContactAgent manages contact identity against the external CRM: upsert by
// email or phone, idempotent tag add/remove, note append and task creation.
type ContactAgent struct {
	BaseAgent
	identity core.IdentityService
}

// NewContactAgent creates a ContactAgent backed by the given identity service.
func NewContactAgent(identity core.IdentityService) *ContactAgent {
	return &ContactAgent{
		BaseAgent: NewBaseAgent(
			"contact",
			"Manages CRM contact records: upsert, tagging, notes and tasks",
			"contact", "crm", "tag", "note", "task",
		),
		identity: identity,
	}
}

// UpsertRequest carries the profile to create or update. When Profile is
// zero, the context's contact profile is used instead.
type UpsertRequest struct {
	Profile core.ContactProfile
}

// Upsert finds a contact by email or phone and updates it, or creates a new
// one when no match exists. A create-path conflict (the identity service
// reporting the contact already exists) falls back to the upsert path rather
// than failing.
func (a *ContactAgent) Upsert(ctx context.Context, wctx *core.Context, req UpsertRequest) core.Result {
	return a.run("upsert", func() (core.Result, error) {
		profile := req.Profile
		if profile == (core.ContactProfile{}) && wctx.Contact != nil {
			profile = *wctx.Contact
		}
		if profile.Email == "" && profile.Phone == "" {
			return core.Result{}, errors.New("contact: an email or phone is required to upsert")
		}

		contact, err := a.upsert(ctx, profile)
		if err != nil {
			return core.Result{}, err
		}

		wctx.SetMeta(core.MetaContactID, contact.ID)
		return core.Ok(map[string]any{
			"contact_id": contact.ID,
			"email":      contact.Profile.Email,
			"phone":      contact.Profile.Phone,
		}).WithNextAction("create_conversation"), nil
	})
}

func (a *ContactAgent) upsert(ctx context.Context, profile core.ContactProfile) (*core.Contact, error) {
	existing, err := a.identity.FindContact(ctx, profile.Email, profile.Phone)
	switch {
	case err == nil:
		return a.identity.UpdateContact(ctx, existing.ID, profile)
	case errors.Is(err, core.ErrNotFound):
		created, createErr := a.identity.CreateContact(ctx, profile)
		if errors.Is(createErr, core.ErrAlreadyExists) {
			// Lost a create race; the record exists now, so update it.
			found, findErr := a.identity.FindContact(ctx, profile.Email, profile.Phone)
			if findErr != nil {
				return nil, fmt.Errorf("contact conflict resolution failed: %w", findErr)
			}
			return a.identity.UpdateContact(ctx, found.ID, profile)
		}
		return created, createErr
	default:
		return nil, fmt.Errorf("contact lookup failed: %w", err)
	}
}

// TagRequest names the contact and the tags to add or remove. An empty
// ContactID falls back to the context metadata.
type TagRequest struct {
	ContactID string
	Tags      []string
}

// AddTags attaches tags to the contact. The operation is set-additive and
// idempotent.
func (a *ContactAgent) AddTags(ctx context.Context, wctx *core.Context, req TagRequest) core.Result {
	return a.run("add_tags", func() (core.Result, error) {
		id, err := a.resolveContactID(wctx, req.ContactID)
		if err != nil {
			return core.Result{}, err
		}
		if err := a.identity.AddTags(ctx, id, req.Tags...); err != nil {
			return core.Result{}, fmt.Errorf("adding tags: %w", err)
		}
		return core.Ok(map[string]any{"contact_id": id, "tags": req.Tags}), nil
	})
}

// RemoveTags detaches tags from the contact. Removing an absent tag is a no-op.
func (a *ContactAgent) RemoveTags(ctx context.Context, wctx *core.Context, req TagRequest) core.Result {
	return a.run("remove_tags", func() (core.Result, error) {
		id, err := a.resolveContactID(wctx, req.ContactID)
		if err != nil {
			return core.Result{}, err
		}
		if err := a.identity.RemoveTags(ctx, id, req.Tags...); err != nil {
			return core.Result{}, fmt.Errorf("removing tags: %w", err)
		}
		return core.Ok(map[string]any{"contact_id": id, "tags": req.Tags}), nil
	})
}

// NoteRequest carries a note to append to the contact record.
type NoteRequest struct {
	ContactID string
	Note      string
}

// AddNote appends a free-form note to the contact record.
func (a *ContactAgent) AddNote(ctx context.Context, wctx *core.Context, req NoteRequest) core.Result {
	return a.run("add_note", func() (core.Result, error) {
		id, err := a.resolveContactID(wctx, req.ContactID)
		if err != nil {
			return core.Result{}, err
		}
		if req.Note == "" {
			return core.Result{}, errors.New("contact: note text is required")
		}
		if err := a.identity.AddNote(ctx, id, req.Note); err != nil {
			return core.Result{}, fmt.Errorf("appending note: %w", err)
		}
		return core.Ok(map[string]any{"contact_id": id}), nil
	})
}

// TaskRequest describes a follow-up task to open against the contact.
type TaskRequest struct {
	ContactID string
	Title     string
	Due       time.Time
}

// CreateTask opens a follow-up task against the contact.
func (a *ContactAgent) CreateTask(ctx context.Context, wctx *core.Context, req TaskRequest) core.Result {
	return a.run("create_task", func() (core.Result, error) {
		id, err := a.resolveContactID(wctx, req.ContactID)
		if err != nil {
			return core.Result{}, err
		}
		if req.Title == "" {
			return core.Result{}, errors.New("contact: task title is required")
		}
		taskID, err := a.identity.CreateTask(ctx, id, req.Title, req.Due)
		if err != nil {
			return core.Result{}, fmt.Errorf("creating task: %w", err)
		}
		return core.Ok(map[string]any{"contact_id": id, "task_id": taskID}), nil
	})
}

// resolveContactID prefers the explicit id, then the context metadata.
func (a *ContactAgent) resolveContactID(wctx *core.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if id := wctx.MetaString(core.MetaContactID); id != "" {
		return id, nil
	}
	return "", core.ErrMissingContactID
}
