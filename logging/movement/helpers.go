package movement

import (
	"context"

	"mine-and-die/pursuit/logging"
)

const (
	// EventReplanned is emitted when a pursuit commits a new path.
	EventReplanned logging.EventType = "movement.replanned"
	// EventPathUnavailable is emitted when the planner finds no usable path.
	EventPathUnavailable logging.EventType = "movement.path_unavailable"
	// EventArrived is emitted once per arrival episode.
	EventArrived logging.EventType = "movement.arrived"
	// EventHalted is emitted when casting stops in-flight motion.
	EventHalted logging.EventType = "movement.halted"
	// EventTargetLost is emitted when the behavior reports its target lost.
	EventTargetLost logging.EventType = "movement.target_lost"
	// EventTargetInvalid is emitted when the target left the world.
	EventTargetInvalid logging.EventType = "movement.target_invalid"
)

// Point mirrors a world position on the wire.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ReplannedPayload describes a committed path.
type ReplannedPayload struct {
	Behavior    string `json:"behavior"`
	Destination Point  `json:"destination"`
	Waypoints   int    `json:"waypoints"`
	Walk        bool   `json:"walk"`
	Refresh     bool   `json:"refresh,omitempty"`
	Direct      bool   `json:"direct,omitempty"`
}

// PathUnavailablePayload describes a rejected planner query.
type PathUnavailablePayload struct {
	Behavior    string `json:"behavior"`
	Destination Point  `json:"destination"`
}

// ArrivedPayload describes the end of an arrival episode.
type ArrivedPayload struct {
	Behavior string `json:"behavior"`
	Engaged  bool   `json:"engaged,omitempty"`
}

// StatusPayload names the behavior that changed status.
type StatusPayload struct {
	Behavior string `json:"behavior"`
	Reason   string `json:"reason,omitempty"`
}

// Replanned publishes a replan event.
func Replanned(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload ReplannedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventReplanned,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryMovement,
		Payload:  payload,
	})
}

// PathUnavailable publishes a no-path event.
func PathUnavailable(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload PathUnavailablePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventPathUnavailable,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryMovement,
		Payload:  payload,
	})
}

// Arrived publishes an arrival event. Arrivals that engage in melee are
// categorised as combat.
func Arrived(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload ArrivedPayload) {
	category := logging.CategoryMovement
	if payload.Engaged {
		category = logging.CategoryCombat
	}
	publish(ctx, pub, logging.Event{
		Type:     EventArrived,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: category,
		Payload:  payload,
	})
}

// Halted publishes a motion halt.
func Halted(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StatusPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventHalted,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryMovement,
		Payload:  payload,
	})
}

// TargetLost publishes a behavior-specific target loss.
func TargetLost(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload StatusPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventTargetLost,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryMovement,
		Payload:  payload,
	})
}

// TargetInvalid publishes the terminal loss of a target.
func TargetInvalid(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, targetID string, payload StatusPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventTargetInvalid,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{{ID: targetID, Kind: logging.EntityKindUnknown}},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryMovement,
		Payload:  payload,
	})
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}
