package fieldgen

import (
	"fmt"

	"github.com/isotest/iso-testgen/pkg/types"
)

// MissingLengthPolicy decides what happens to definitions the synthesizer
// cannot serve (missing or invalid length, unknown format or type)
type MissingLengthPolicy string

const (
	// PolicyFail aborts the whole extension with a descriptive error
	PolicyFail MissingLengthPolicy = "fail"
	// PolicySkip passes the field through unchanged
	PolicySkip MissingLengthPolicy = "skip"
)

// Outcome is what happened to one field during extension
type Outcome string

const (
	OutcomeExtended    Outcome = "EXTENDED"
	OutcomePassThrough Outcome = "PASS_THROUGH"
	OutcomeSkipped     Outcome = "SKIPPED"
)

// Event reports the outcome for one field
type Event struct {
	Key     string
	Outcome Outcome
	// Err is set for skipped fields
	Err error
}

// Observer receives one event per processed field
type Observer func(Event)

// Extender runs the synthesizer over a whole catalog
type Extender struct {
	synth    *Synthesizer
	policy   MissingLengthPolicy
	observer Observer
}

// ExtenderOption configures an Extender
type ExtenderOption func(*Extender)

// WithPolicy sets the missing length policy (default PolicyFail)
func WithPolicy(policy MissingLengthPolicy) ExtenderOption {
	return func(e *Extender) {
		e.policy = policy
	}
}

// WithObserver registers an observer for per-field events
func WithObserver(observer Observer) ExtenderOption {
	return func(e *Extender) {
		e.observer = observer
	}
}

// NewExtender creates an extender around synth
func NewExtender(synth *Synthesizer, opts ...ExtenderOption) *Extender {
	e := &Extender{
		synth:  synth,
		policy: PolicyFail,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend returns a new catalog with the same keys in the same order, each
// field a copy of the input extended with its generated data. The input
// catalog is not modified. Any field error fails the whole call.
func (e *Extender) Extend(catalog *types.Catalog) (*types.Catalog, error) {
	extended := types.NewCatalog()

	for _, key := range catalog.Keys() {
		field, _ := catalog.Get(key)
		out := field.Copy()

		result, err := e.synth.Synthesize(field.FieldDefinition)
		switch {
		case err != nil && e.policy == PolicySkip && IsIncomplete(err):
			e.notify(Event{Key: key, Outcome: OutcomeSkipped, Err: err})
		case err != nil:
			return nil, fmt.Errorf("field %q: %w", key, err)
		case result == nil:
			e.notify(Event{Key: key, Outcome: OutcomePassThrough})
		default:
			out.TestCases = result.TestCases
			out.ValidationRules = result.ValidationRules
			out.ValidExample = result.ValidExample
			out.ValidExampleRaw = result.ValidExampleRaw
			e.notify(Event{Key: key, Outcome: OutcomeExtended})
		}

		extended.Set(key, out)
	}

	return extended, nil
}

func (e *Extender) notify(event Event) {
	if e.observer != nil {
		e.observer(event)
	}
}

// ParsePolicy converts a configuration value to a policy
func ParsePolicy(s string) (MissingLengthPolicy, error) {
	switch MissingLengthPolicy(s) {
	case PolicyFail, PolicySkip:
		return MissingLengthPolicy(s), nil
	case "":
		return PolicyFail, nil
	}
	return "", fmt.Errorf("unknown missing length policy %q: expected %q or %q", s, PolicyFail, PolicySkip)
}
