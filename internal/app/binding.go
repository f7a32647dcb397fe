package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrDuplicateTrigger = errors.New("duplicate trigger")
	ErrUnknownTrigger   = errors.New("unknown trigger")
	ErrUsage            = errors.New("usage")
)

// Request is one invocation of a binding.
type Request struct {
	Args  []string
	Flags map[string]string
	In    io.Reader
	Out   io.Writer
}

func (r Request) Flag(name string) string {
	return r.Flags[name]
}

type Flag struct {
	Name    string
	Usage   string
	Default string
}

// Binding ties a trigger ("orders pay") to the handler it runs.
type Binding struct {
	Trigger string
	Summary string
	// Usage lists the positional arguments, e.g. "<id> <amount>".
	Usage   string
	MinArgs int
	MaxArgs int // -1 for no limit
	Flags   []Flag
	Handler func(ctx context.Context, req Request) error
}

// Path splits the trigger into its words.
func (b Binding) Path() []string {
	return strings.Fields(b.Trigger)
}

func (b Binding) checkArgs(args []string) error {
	if len(args) < b.MinArgs || (b.MaxArgs >= 0 && len(args) > b.MaxArgs) {
		return fmt.Errorf("%w: %s %s", ErrUsage, b.Trigger, b.Usage)
	}
	return nil
}

// Registry is the immutable table of bindings, in declaration order.
type Registry struct {
	bindings []Binding
	index    map[string]int
}

func NewRegistry(bindings []Binding) (*Registry, error) {
	r := &Registry{index: make(map[string]int, len(bindings))}
	for _, b := range bindings {
		trigger := strings.Join(b.Path(), " ")
		if trigger == "" {
			return nil, errors.New("binding has an empty trigger")
		}
		if b.Handler == nil {
			return nil, fmt.Errorf("binding %q has no handler", trigger)
		}
		if _, ok := r.index[trigger]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTrigger, trigger)
		}
		b.Trigger = trigger
		r.index[trigger] = len(r.bindings)
		r.bindings = append(r.bindings, b)
	}
	return r, nil
}

func (r *Registry) Lookup(trigger string) (Binding, bool) {
	i, ok := r.index[strings.Join(strings.Fields(trigger), " ")]
	if !ok {
		return Binding{}, false
	}
	return r.bindings[i], true
}

func (r *Registry) All() []Binding {
	return append([]Binding(nil), r.bindings...)
}
