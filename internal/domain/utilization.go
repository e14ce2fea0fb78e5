package domain

import (
	"context"
	"strings"
)

// ResourceActions are the utilization actions accepted by the resource
// endpoint, which persists utilization as interactions.
var ResourceActions = []string{"view", "click", "contact", "download", "share", "bookmark"}

// DirectoryActions are the utilization actions accepted by the directory
// endpoint, which delegates to a directory manager.
var DirectoryActions = []string{"view", "contact", "qr_scan", "share", "feedback"}

// IsResourceAction reports whether a is one of ResourceActions.
func IsResourceAction(a string) bool { return contains(ResourceActions, a) }

// IsDirectoryAction reports whether a is one of DirectoryActions.
func IsDirectoryAction(a string) bool { return contains(DirectoryActions, a) }

// ResourceInteractionType returns the interaction type stored for a
// resource utilization action.
func ResourceInteractionType(action string) string {
	return InteractionResourcePrefix + action
}

// UtilizationMetrics summarizes interactions recorded against a resource.
type UtilizationMetrics struct {
	TotalInteractions  int64            `json:"totalInteractions"`
	InteractionsByType map[string]int64 `json:"interactionsByType"`
}

// EmptyUtilizationMetrics returns zero metrics with a non-nil map so the
// JSON shape is stable.
func EmptyUtilizationMetrics() UtilizationMetrics {
	return UtilizationMetrics{InteractionsByType: map[string]int64{}}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// JoinActions renders an action set for error messages.
func JoinActions(set []string) string { return strings.Join(set, ", ") }

type attributesKey struct{}

// WithAttributes returns a child of ctx carrying a. Directory managers read
// them with AttributesFrom, since their call signature has no room for them.
func WithAttributes(ctx context.Context, a Attributes) context.Context {
	if len(a) == 0 {
		return ctx
	}
	return context.WithValue(ctx, attributesKey{}, a)
}

// AttributesFrom returns the attributes stored by WithAttributes, or nil.
func AttributesFrom(ctx context.Context) Attributes {
	a, _ := ctx.Value(attributesKey{}).(Attributes)
	return a
}
