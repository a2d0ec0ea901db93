package agent

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/logging"
)

// RequiredField enumerates the contact fields ValidateContext can check.
type RequiredField string

const (
	// FieldEmail requires a non-empty email on the context profile.
	FieldEmail RequiredField = "email"
	// FieldPhone requires a non-empty phone on the context profile.
	FieldPhone RequiredField = "phone"
	// FieldName requires a first or last name on the context profile.
	FieldName RequiredField = "name"
)

// DefaultCacheCap bounds the number of live entries per agent cache. Set over
// the cap first sweeps expired entries, then evicts the earliest expiry.
const DefaultCacheCap = 256

type cacheEntry struct {
	value  any
	expiry time.Time
}

// BaseAgent bundles the shared identity, capability matching, TTL caching and
// context validation plumbing. Embed it in concrete agent implementations and
// supply typed operations to satisfy the core.Agent contract. All exported
// methods are goroutine-safe.
//
// The cache is private to the embedding agent instance: entries are never
// shared across agents or processes, and cache lifetime is bounded by the
// instance's lifetime plus the per-entry TTL.
type BaseAgent struct {
	name         string
	description  string
	capabilities []string

	cacheMu  sync.Mutex
	cache    map[string]cacheEntry
	cacheCap int

	logger logging.Logger
	now    func() time.Time
}

// NewBaseAgent constructs a BaseAgent with the given identity and capability
// tokens.
func NewBaseAgent(name, description string, capabilities ...string) BaseAgent {
	return BaseAgent{
		name:         name,
		description:  description,
		capabilities: capabilities,
		cache:        make(map[string]cacheEntry),
		cacheCap:     DefaultCacheCap,
		logger:       logging.NoOpLogger{},
		now:          time.Now,
	}
}

// Name returns the agent's name.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a human-readable description of the agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Capabilities returns a copy of the declared capability tokens.
func (b *BaseAgent) Capabilities() []string {
	out := make([]string, len(b.capabilities))
	copy(out, b.capabilities)
	return out
}

// SetLogger installs a logger; nil restores the NoOp logger.
func (b *BaseAgent) SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	b.logger = l
}

// Logger returns the agent's logger (never nil).
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

// CanHandle performs a case-insensitive substring match of the task
// description against the declared capability tokens. It is a coarse routing
// aid only; the orchestrator dispatches by explicit agent selection.
func (b *BaseAgent) CanHandle(task string) bool {
	t := strings.ToLower(task)
	for _, token := range b.capabilities {
		if strings.Contains(t, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// SetCache stores a value with an absolute expiry of now + ttl.
func (b *BaseAgent) SetCache(key string, value any, ttl time.Duration) {
	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	if len(b.cache) >= b.cacheCap {
		b.evictLocked()
	}
	b.cache[key] = cacheEntry{value: value, expiry: b.now().Add(ttl)}
}

// GetCache returns the cached value if it has not expired. A read after
// expiry is treated as a miss and the entry is evicted.
func (b *BaseAgent) GetCache(key string) (any, bool) {
	b.cacheMu.Lock()
	defer b.cacheMu.Unlock()
	entry, ok := b.cache[key]
	if !ok {
		return nil, false
	}
	if !b.now().Before(entry.expiry) {
		delete(b.cache, key)
		return nil, false
	}
	return entry.value, true
}

// evictLocked drops expired entries and, if the cache is still full, the
// entry with the earliest expiry. Caller must hold cacheMu.
func (b *BaseAgent) evictLocked() {
	now := b.now()
	for k, e := range b.cache {
		if !now.Before(e.expiry) {
			delete(b.cache, k)
		}
	}
	if len(b.cache) < b.cacheCap {
		return
	}
	var oldestKey string
	var oldest time.Time
	for k, e := range b.cache {
		if oldestKey == "" || e.expiry.Before(oldest) {
			oldestKey, oldest = k, e.expiry
		}
	}
	delete(b.cache, oldestKey)
}

// ValidateContext checks presence of the required contact fields on the
// workflow context and returns a human-readable error when one is missing.
// It is a precondition check run before work that depends on contact identity.
func (b *BaseAgent) ValidateContext(wctx *core.Context, required ...RequiredField) error {
	var profile core.ContactProfile
	if wctx != nil && wctx.Contact != nil {
		profile = *wctx.Contact
	}
	for _, field := range required {
		switch field {
		case FieldEmail:
			if profile.Email == "" {
				return fmt.Errorf("%s: an email address is required", b.name)
			}
		case FieldPhone:
			if profile.Phone == "" {
				return fmt.Errorf("%s: a phone number is required", b.name)
			}
		case FieldName:
			if !profile.HasName() {
				return fmt.Errorf("%s: a first or last name is required", b.name)
			}
		default:
			return fmt.Errorf("%s: unknown required field %q", b.name, field)
		}
	}
	return nil
}

// run executes fn inside the agent error boundary: panics are recovered and
// any failure is converted into a core.Result tagged with the agent name and
// a timestamp. Agents never propagate raw errors to the orchestrator.
func (b *BaseAgent) run(action string, fn func() (core.Result, error)) (out core.Result) {
	start := b.now()
	defer func() {
		if r := recover(); r != nil {
			out = b.failure(fmt.Errorf("panic in %s: %v", action, r))
		}
		b.logger.Debug("agent call finished", "agent", b.name, "action", action, "success", out.Success, "duration", time.Since(start))
	}()

	res, err := fn()
	if err != nil {
		return b.failure(err)
	}
	if !res.Success && res.Error == "" {
		res.Error = fmt.Sprintf("%s: %s failed", b.name, action)
	}
	if !res.Success {
		res.Data = nil
		res = b.tag(res)
	}
	return res
}

// failure builds a failed result carrying the agent boundary metadata.
func (b *BaseAgent) failure(err error) core.Result {
	return b.tag(core.Fail(err))
}

func (b *BaseAgent) tag(res core.Result) core.Result {
	if res.Metadata == nil {
		res.Metadata = map[string]any{}
	}
	res.Metadata["agent"] = b.name
	res.Metadata["timestamp"] = b.now().UTC().Format(time.RFC3339)
	return res
}
