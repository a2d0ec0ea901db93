package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadmesh/leadmesh/core"
)

var _ core.IdentityService = (*InMemoryService)(nil)

func TestInMemoryService_CreateAndFind(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, core.ContactProfile{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	byEmail, err := svc.FindContact(ctx, "jane@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.FindContact(ctx, "nobody@example.com", "")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInMemoryService_FindByPhone(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, core.ContactProfile{Phone: "7135550182"})
	require.NoError(t, err)

	byPhone, err := svc.FindContact(ctx, "", "7135550182")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)
}

func TestInMemoryService_CreateDuplicate(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, core.ContactProfile{Email: "jane@example.com"})
	require.NoError(t, err)
	_, err = svc.CreateContact(ctx, core.ContactProfile{Email: "jane@example.com"})
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestInMemoryService_UpdateMergesNonEmpty(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, core.ContactProfile{FirstName: "Jane", Email: "jane@example.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateContact(ctx, created.ID, core.ContactProfile{Phone: "7135550182"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Profile.FirstName, "empty update fields keep stored values")
	assert.Equal(t, "7135550182", updated.Profile.Phone)

	_, err = svc.UpdateContact(ctx, "missing", core.ContactProfile{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInMemoryService_SnapshotIsolation(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, core.ContactProfile{Email: "jane@example.com"})
	require.NoError(t, err)
	require.NoError(t, svc.AddTags(ctx, created.ID, "hot"))

	snap, ok := svc.Contact(created.ID)
	require.True(t, ok)
	snap.Tags[0] = "tampered"

	fresh, _ := svc.Contact(created.ID)
	assert.Equal(t, []string{"hot"}, fresh.Tags)
}

func TestInMemoryService_TasksAndEnrollments(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	created, err := svc.CreateContact(ctx, core.ContactProfile{Email: "jane@example.com"})
	require.NoError(t, err)

	due := time.Now().Add(24 * time.Hour)
	taskID, err := svc.CreateTask(ctx, created.ID, "call back", due)
	require.NoError(t, err)
	require.NotEmpty(t, taskID)
	tasks := svc.Tasks(created.ID)
	require.Len(t, tasks, 1)
	assert.Equal(t, "call back", tasks[0].Title)

	_, err = svc.EnrollCampaign(ctx, created.ID, "new lead", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"new lead"}, svc.Enrollments(created.ID))

	_, err = svc.EnrollCampaign(ctx, "missing", "new lead", nil)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
