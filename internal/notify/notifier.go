// Package notify unifies the user-facing signaling surface. Toasts,
// banners and alerts all funnel through one Notifier so mutating code
// never depends on how a message is rendered.
package notify

import "github.com/rs/zerolog"

type Notifier interface {
	// Success shows a transient success message.
	Success(msg string)
	// Error shows a transient failure message.
	Error(msg string)
	// Degraded toggles the client-wide "service degraded" banner.
	// It is distinct from per-action errors: it reflects the remote
	// API being unreachable, which affects all subsequent actions.
	Degraded(active bool)
}

// LogNotifier renders notifications as log events. It is the terminal
// client's toast sink.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(msg string) {
	n.log.Info().Str("kind", "toast").Msg(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.log.Warn().Str("kind", "toast").Msg(msg)
}

func (n *LogNotifier) Degraded(active bool) {
	if active {
		n.log.Warn().Str("kind", "banner").Msg("backend temporarily unavailable, cart and some features may not work")
		return
	}
	n.log.Info().Str("kind", "banner").Msg("backend connection restored")
}

// Noop discards all notifications.
type Noop struct{}

func (Noop) Success(string) {}
func (Noop) Error(string)   {}
func (Noop) Degraded(bool)  {}
