package core

import "time"

// Result is the outcome of one capability invocation. After an agent returns
// it the value should be treated as immutable.
//
// Invariant: Success == false implies Data is nil and Error is non-empty.
// Use the Ok/Fail constructors to preserve it.
type Result struct {
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	NextAction string         `json:"next_action,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Ok creates a successful result carrying the given payload.
func Ok(data map[string]any) Result {
	return Result{Success: true, Data: data}
}

// Fail creates a failed result from an error.
func Fail(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// Failf creates a failed result with a preformatted message.
func Failf(msg string) Result {
	return Result{Success: false, Error: msg}
}

// WithNextAction returns a copy of the result suggesting a follow-up step.
func (r Result) WithNextAction(action string) Result {
	r.NextAction = action
	return r
}

// String returns the named Data entry as a string, or "" when absent.
func (r Result) String(key string) string {
	s, _ := r.Data[key].(string)
	return s
}

// Bool returns the named Data entry as a bool, defaulting to false.
func (r Result) Bool(key string) bool {
	b, _ := r.Data[key].(bool)
	return b
}

// StepRecord is one entry in a workflow's execution trace: the agent that
// ran, its result, and the elapsed wall time. A workflow invocation returns
// an ordered sequence of these; order reflects execution order.
type StepRecord struct {
	Agent    string        `json:"agent"`
	Result   Result        `json:"result"`
	Duration time.Duration `json:"duration"`
}
