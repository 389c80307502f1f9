// Package connection tracks the connectivity banner shown to each browser tab.
//
// A Banner is a small state machine:
//
//	hidden ──offline──▶ offline ──probe fails──▶ server_unreachable
//	   ▲                   │                           │
//	   └──── probe ok / dismiss ◀──────────────────────┘
//
// The "connection error seen" flag is persisted per tab so a reload of a tab
// that saw an error starts with the banner visible.
package connection

import (
	"context"
	"sync"
	"time"
)

// State is the banner state.
type State string

const (
	StateHidden            State = "hidden"
	StateOffline           State = "offline"
	StateServerUnreachable State = "server_unreachable"
)

// Banner messages.
const (
	MessageOffline     = "Vous êtes hors ligne"
	MessageUnreachable = "Impossible de joindre le serveur"
)

// FlagErrorSeen is the tab flag recording that a connection error was shown.
const FlagErrorSeen = "connection_error_seen"

// View is the externally visible banner state.
type View struct {
	State       State      `json:"state"`
	Visible     bool       `json:"visible"`
	Message     string     `json:"message,omitempty"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
}

// Banner is the connection banner of one tab.
type Banner struct {
	tabID string
	deps  *deps

	mu          sync.Mutex
	state       State
	online      bool
	checking    bool
	lastChecked time.Time
	lastSeen    time.Time
	retryTimer  *time.Timer
}

func newBanner(tabID string, d *deps, initial State) *Banner {
	return &Banner{tabID: tabID, deps: d, state: initial, online: true, lastSeen: d.now()}
}

// TabID returns the tab the banner belongs to.
func (b *Banner) TabID() string { return b.tabID }

// View returns the current state.
func (b *Banner) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Banner) viewLocked() View {
	v := View{State: b.state, Visible: b.state != StateHidden}
	switch b.state {
	case StateOffline:
		v.Message = MessageOffline
	case StateServerUnreachable:
		v.Message = MessageUnreachable
	case StateHidden:
	}
	if !b.lastChecked.IsZero() {
		t := b.lastChecked
		v.LastChecked = &t
	}
	return v
}

// Visible reports whether the banner is shown.
func (b *Banner) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != StateHidden
}

func (b *Banner) touch() {
	b.mu.Lock()
	b.lastSeen = b.deps.now()
	b.mu.Unlock()
}

func (b *Banner) idleSince(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.Sub(b.lastSeen)
}

// HandleOffline shows the offline banner and persists the error flag.
func (b *Banner) HandleOffline(ctx context.Context) View {
	b.mu.Lock()
	b.online = false
	b.state = StateOffline
	b.stopRetryLocked()
	v := b.viewLocked()
	b.mu.Unlock()

	b.setFlag(ctx)
	return v
}

// HandleOnline records that the tab is back online. A visible banner stays
// visible; the retry callback fires after the retry delay.
func (b *Banner) HandleOnline(ctx context.Context) View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.online = true
	if b.state != StateHidden && b.deps.onRetry != nil {
		b.stopRetryLocked()
		retryCtx := context.WithoutCancel(ctx)
		b.retryTimer = time.AfterFunc(b.deps.retryDelay, func() { b.deps.onRetry(retryCtx) })
	}
	return b.viewLocked()
}

// Dismiss hides the banner and clears the error flag. A later failure shows it again.
func (b *Banner) Dismiss(ctx context.Context) View {
	b.mu.Lock()
	b.state = StateHidden
	b.stopRetryLocked()
	v := b.viewLocked()
	b.mu.Unlock()

	b.clearFlag(ctx)
	return v
}

// Retry probes immediately, then runs the retry callback.
func (b *Banner) Retry(ctx context.Context) View {
	b.probe(ctx, true)
	if b.deps.onRetry != nil {
		b.deps.onRetry(ctx)
	}
	return b.View()
}

// Check probes the server when the banner is visible, the probe interval has
// elapsed and no probe is already running. It reports whether a probe ran.
func (b *Banner) Check(ctx context.Context) bool {
	return b.probe(ctx, false)
}

func (b *Banner) probe(ctx context.Context, force bool) bool {
	b.mu.Lock()
	now := b.deps.now()
	due := force || now.Sub(b.lastChecked) >= b.deps.probeInterval
	if b.checking || !due || (!force && b.state == StateHidden) {
		b.mu.Unlock()
		return false
	}
	b.checking = true
	b.mu.Unlock()

	err := b.deps.runProbe(ctx)

	b.mu.Lock()
	b.checking = false
	b.lastChecked = b.deps.now()
	resolved := false
	// A check that answers proves the tab is connected, even when the
	// offline report was never followed by an online one.
	switch {
	case err == nil:
		b.online = true
		b.state = StateHidden
		b.stopRetryLocked()
		resolved = true
	case b.online:
		b.state = StateServerUnreachable
	default:
		b.state = StateOffline
	}
	b.mu.Unlock()

	if resolved {
		b.clearFlag(ctx)
	} else {
		b.setFlag(ctx)
	}
	if err != nil {
		b.deps.logger.DebugContext(ctx, "connection probe failed", "tab_id", b.tabID, "error", err)
	}
	return true
}

func (b *Banner) stop() {
	b.mu.Lock()
	b.stopRetryLocked()
	b.mu.Unlock()
}

func (b *Banner) stopRetryLocked() {
	if b.retryTimer != nil {
		b.retryTimer.Stop()
		b.retryTimer = nil
	}
}

func (b *Banner) setFlag(ctx context.Context) {
	if b.deps.flags == nil {
		return
	}
	if err := b.deps.flags.Set(ctx, b.tabID, FlagErrorSeen, "1"); err != nil {
		b.deps.logger.WarnContext(ctx, "persist connection flag failed", "tab_id", b.tabID, "error", err)
	}
}

func (b *Banner) clearFlag(ctx context.Context) {
	if b.deps.flags == nil {
		return
	}
	if err := b.deps.flags.Delete(ctx, b.tabID, FlagErrorSeen); err != nil {
		b.deps.logger.WarnContext(ctx, "clear connection flag failed", "tab_id", b.tabID, "error", err)
	}
}
