package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

type EntityKind string

const (
	EntityKindUnknown  EntityKind = "unknown"
	EntityKindPlayer   EntityKind = "player"
	EntityKindCreature EntityKind = "creature"
	EntityKindWorld    EntityKind = "world"
)

type Event struct {
	Type     EventType      `json:"type"`
	Tick     uint64         `json:"tick"`
	Time     time.Time      `json:"time"`
	Actor    EntityRef      `json:"actor"`
	Targets  []EntityRef    `json:"targets,omitempty"`
	Severity Severity       `json:"severity"`
	Category string         `json:"category,omitempty"`
	Payload  any            `json:"payload,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

const (
	CategoryMovement = "movement"
	CategoryCombat   = "combat"
	CategorySystem   = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type fieldPublisher struct {
	next   Publisher
	fields map[string]any
}

func (p *fieldPublisher) Publish(ctx context.Context, event Event) {
	if p.next == nil {
		return
	}
	p.next.Publish(ctx, withFields(event, p.fields))
}

// WithFields decorates every event published through p with fields that the
// event does not already carry.
func WithFields(p Publisher, fields map[string]any) Publisher {
	if p == nil {
		return NopPublisher()
	}
	if len(fields) == 0 {
		return p
	}
	return &fieldPublisher{next: p, fields: cloneMap(fields)}
}

func (e Event) WithExtra(key string, value any) Event {
	e = e.Clone()
	if e.Extra == nil {
		e.Extra = make(map[string]any, 1)
	}
	e.Extra[key] = value
	return e
}

// Clone copies the slices and maps held by the event.
func (e Event) Clone() Event {
	cloned := e
	if len(e.Targets) > 0 {
		cloned.Targets = append([]EntityRef(nil), e.Targets...)
	}
	cloned.Extra = cloneMap(e.Extra)
	return cloned
}

func withFields(event Event, fields map[string]any) Event {
	if len(fields) == 0 {
		return event
	}
	event = event.Clone()
	if event.Extra == nil {
		event.Extra = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if _, exists := event.Extra[k]; !exists {
			event.Extra[k] = v
		}
	}
	return event
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	copied := make(map[string]any, len(in))
	for k, v := range in {
		copied[k] = v
	}
	return copied
}
