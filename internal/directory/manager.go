// Package directory records utilization of mental-health directory resources
// on behalf of the directory utilization endpoint.
//
// A Manager is injected into services.DirectoryService at construction time.
// Implementations in this package:
//
//   - RedisManager: per-resource counters in a Redis hash
//   - AMQPPublisher: one "resource.utilization" event per call
//   - Multi: fans a call out to several managers
//   - BestEffort: logs and swallows a manager's errors
//   - Noop: accepts and discards everything
package directory

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/mindwell-api/internal/domain"
)

// Manager records one utilization event for a directory resource.
// demographics may be nil.
type Manager interface {
	TrackUtilization(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error
}

// ManagerFunc adapts a plain function to Manager.
type ManagerFunc func(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error

// TrackUtilization calls f.
func (f ManagerFunc) TrackUtilization(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error {
	return f(ctx, resourceID, action, demographics)
}

// Noop discards every event.
type Noop struct{}

// TrackUtilization always succeeds.
func (Noop) TrackUtilization(context.Context, string, string, *domain.Demographics) error { return nil }

// Multi calls every manager in order and joins their errors. A failing
// manager does not stop the remaining ones.
type Multi []Manager

// TrackUtilization implements Manager.
func (m Multi) TrackUtilization(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error {
	var errs []error
	for _, mgr := range m {
		if mgr == nil {
			continue
		}
		if err := mgr.TrackUtilization(ctx, resourceID, action, demographics); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BestEffort wraps m so that its failures are logged at warn level and never
// returned. name identifies the backend in the log line.
func BestEffort(name string, m Manager) Manager {
	return ManagerFunc(func(ctx context.Context, resourceID, action string, demographics *domain.Demographics) error {
		if err := m.TrackUtilization(ctx, resourceID, action, demographics); err != nil {
			log.Warn().
				Err(err).
				Str("backend", name).
				Str("resource_id", resourceID).
				Str("action", action).
				Msg("directory utilization not recorded")
		}
		return nil
	})
}

// Compose builds the manager used by the directory endpoint from the
// configured backends. Nil backends are skipped; with none configured the
// result is Noop.
func Compose(ms ...Manager) Manager {
	var out Multi
	for _, m := range ms {
		if m != nil {
			out = append(out, m)
		}
	}
	switch len(out) {
	case 0:
		return Noop{}
	case 1:
		return out[0]
	default:
		return out
	}
}
