package agent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadmesh/leadmesh/core"
)

func TestBaseAgent_CanHandle(t *testing.T) {
	b := NewBaseAgent("test", "test agent", "appointment", "schedule")

	assert.True(t, b.CanHandle("book an APPOINTMENT for me"))
	assert.True(t, b.CanHandle("reschedule my visit"))
	assert.False(t, b.CanHandle("send an invoice"))
}

func TestBaseAgent_CacheRoundTrip(t *testing.T) {
	b := NewBaseAgent("test", "test agent")
	now := time.Now()
	b.now = func() time.Time { return now }

	b.SetCache("k", "v", 10*time.Second)

	got, ok := b.GetCache("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestBaseAgent_CacheExpiryEvicts(t *testing.T) {
	b := NewBaseAgent("test", "test agent")
	now := time.Now()
	b.now = func() time.Time { return now }

	b.SetCache("k", "v", 10*time.Second)
	now = now.Add(11 * time.Second)

	_, ok := b.GetCache("k")
	assert.False(t, ok, "read after ttl must miss")

	// The expired entry was evicted, not retained.
	now = now.Add(-11 * time.Second)
	_, ok = b.GetCache("k")
	assert.False(t, ok)
}

func TestBaseAgent_CacheCapEviction(t *testing.T) {
	b := NewBaseAgent("test", "test agent")
	b.cacheCap = 2
	now := time.Now()
	b.now = func() time.Time { return now }

	b.SetCache("a", 1, time.Minute)
	b.SetCache("b", 2, 2*time.Minute)
	b.SetCache("c", 3, 3*time.Minute)

	// "a" had the earliest expiry and was evicted to stay under the cap.
	_, ok := b.GetCache("a")
	assert.False(t, ok)
	_, ok = b.GetCache("c")
	assert.True(t, ok)
}

func TestBaseAgent_ValidateContext(t *testing.T) {
	b := NewBaseAgent("test", "test agent")

	tests := []struct {
		name     string
		profile  *core.ContactProfile
		required []RequiredField
		wantErr  bool
	}{
		{"all present", &core.ContactProfile{FirstName: "Jane", Email: "j@x.com", Phone: "5551234567"}, []RequiredField{FieldEmail, FieldPhone, FieldName}, false},
		{"missing email", &core.ContactProfile{Phone: "5551234567"}, []RequiredField{FieldEmail}, true},
		{"missing phone", &core.ContactProfile{Email: "j@x.com"}, []RequiredField{FieldPhone}, true},
		{"last name satisfies name", &core.ContactProfile{LastName: "Doe"}, []RequiredField{FieldName}, false},
		{"nil profile", nil, []RequiredField{FieldEmail}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wctx := core.NewContext("sess-1", core.LangEnglish)
			wctx.Contact = tt.profile
			err := b.ValidateContext(wctx, tt.required...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseAgent_RunConvertsErrors(t *testing.T) {
	b := NewBaseAgent("test", "test agent")

	res := b.run("explode", func() (core.Result, error) {
		return core.Result{}, errors.New("external call failed")
	})

	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Equal(t, "external call failed", res.Error)
	assert.Equal(t, "test", res.Metadata["agent"])
	assert.NotEmpty(t, res.Metadata["timestamp"])
}

func TestBaseAgent_RunRecoversPanics(t *testing.T) {
	b := NewBaseAgent("test", "test agent")

	res := b.run("explode", func() (core.Result, error) {
		panic("boom")
	})

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "boom")
	assert.Equal(t, "test", res.Metadata["agent"])
}

func TestBaseAgent_RunStripsPayloadOnFailure(t *testing.T) {
	b := NewBaseAgent("test", "test agent")

	res := b.run("half", func() (core.Result, error) {
		return core.Result{Success: false, Data: map[string]any{"leak": true}}, nil
	})

	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.NotEmpty(t, res.Error)
}
