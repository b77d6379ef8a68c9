package tessera

import (
	"fmt"
	"log/slog"
)

// txState is the transaction engine's state machine:
// Idle -> Collecting -> AwaitingLayout -> AwaitingConfigures -> Committing
// -> Idle.
type txState int

const (
	txIdle txState = iota
	txCollecting
	txAwaitingLayout
	txAwaitingConfigures
	txCommitting
)

// ApplyPending is the single entry point that drives the transaction
// pipeline: pending -> inflight (layout demand) -> configures -> commit.
// Called by external mutators after writing to some View's or Output's
// Pending state, and by the engine itself once a transaction that was
// marked dirty mid-flight commits.
//
// If a transaction is already in flight, this only latches
// pendingStateDirty and returns: the currently running transaction will
// re-enter ApplyPending once it commits.
func (r *Root) ApplyPending() {
	if r.state != txIdle {
		r.pendingDirty = true
		return
	}
	r.state = txCollecting
	r.collect()
}

// NotifyLayoutDemandDone is called by a per-output LayoutGenerator as each
// outstanding layout demand resolves. (Root.RemoveOutput cancels a removed
// output's demand and adjusts the count itself, without calling this.) Once every started demand has reported in, the engine
// advances to AwaitingConfigures.
func (r *Root) NotifyLayoutDemandDone(o *Output) {
	if o.LayoutDemand == nil {
		return // already resolved or never started; tolerate duplicate calls
	}
	o.LayoutDemand = nil
	if r.inflightLayoutDemands > 0 {
		r.inflightLayoutDemands--
	}
	if r.inflightLayoutDemands == 0 {
		r.sendConfigures()
	}
}

// NotifyConfigured is called as each inflight view's client acks a
// configure. serial must match the serial the view was last sent, or the
// ack is treated as stale and ignored (a client acking an old configure
// after a newer one was already sent).
func (r *Root) NotifyConfigured(v *View, serial uint32) {
	if v.InflightSerial == 0 || serial != v.InflightSerial {
		return
	}
	v.InflightSerial = 0
	if v.IsX11() {
		return // X11 views were never counted (exempt category)
	}
	if r.inflightConfigures > 0 {
		r.inflightConfigures--
	}
	if r.inflightConfigures == 0 {
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
		r.commit()
	}
}

// collect performs the synchronous pending -> inflight snapshot, then
// either starts layout demands and waits, or — if none were needed —
// proceeds straight to send_configures in the same turn.
func (r *Root) collect() {
	for _, seat := range r.seats {
		seat.Focus(nil)
	}
	// A seat's Focus(nil) callback re-entering ApplyPending is handled by
	// the guard at the top of ApplyPending: since r.state is still
	// txCollecting (not Idle) here, that reentrant call only latches
	// pendingDirty, which this transaction's eventual commit honors. There
	// is no separate abort path to implement because the top-level guard
	// already covers it.

	r.drainHiddenPendingIntoInflight()

	for _, o := range r.outputs.active {
		r.collectOutputFocusStack(o)
	}
	for _, o := range r.outputs.active {
		r.reconcileLeavingFullscreenSameOutput(o)
		r.collectOutputWMStack(o)
		o.Inflight.Tags = o.Pending.Tags
	}

	// Second pass: handles fullscreen elections that differ from the
	// prior inflight value, including migration between outputs. Must run
	// after every output's first pass has finished, since an incoming
	// fullscreen view's Current.Box may have been set by a different
	// output's Committing in a much earlier transaction and must not be
	// read mid-update.
	for _, o := range r.outputs.active {
		r.reconcileIncomingFullscreen(o)
	}

	r.inflightLayoutDemands = 0
	for _, o := range r.outputs.active {
		r.maybeStartLayoutDemand(o)
	}

	r.state = txAwaitingLayout
	if r.inflightLayoutDemands == 0 {
		r.sendConfigures()
	}
}

func (r *Root) drainHiddenPendingIntoInflight() {
	for _, v := range r.hidden.Pending.FocusStack.Views() {
		assert(v.Pending.Output == nil, "hidden pending view has an output")
		v.Inflight.Output = nil
		v.FocusLink(PhaseInflight).MoveTo(r.hidden.Inflight.FocusStack)
	}
	for _, v := range r.hidden.Pending.WMStack.Views() {
		v.WMLink(PhaseInflight).MoveTo(r.hidden.Inflight.WMStack)
	}
}

func (r *Root) collectOutputFocusStack(o *Output) {
	o.Pending.Fullscreen = nil
	for _, v := range o.Pending.FocusStack.Views() {
		assert(v.Pending.Output == o, "pending focus_stack view's output mismatch")

		if v.Current.Float && !v.Pending.Float {
			v.FloatBox = v.Current.Box
		}
		if !v.Current.Float && v.Pending.Float {
			v.Pending.Box = v.FloatBox
			v.ClampToOutput(o)
		}

		if o.Pending.Fullscreen == nil && v.Pending.Fullscreen &&
			(v.Pending.Tags&o.Pending.Tags) != 0 {
			o.Pending.Fullscreen = v
		}

		v.FocusLink(PhaseInflight).MoveTo(o.Inflight.FocusStack)
		v.Inflight = v.Pending
	}
}

// reconcileLeavingFullscreenSameOutput restores a view's pre-fullscreen
// geometry (PostFullscreenBox, clamped to the output) when it is the
// output's prior fullscreen view and it lost the election.
// Cross-output migration is handled separately by
// reconcileIncomingFullscreen.
func (r *Root) reconcileLeavingFullscreenSameOutput(o *Output) {
	prev := o.Inflight.Fullscreen
	if prev == nil || prev == o.Pending.Fullscreen {
		return
	}
	prev.Pending.Box = prev.PostFullscreenBox.Clamp(o.EffectiveBox())
	prev.Inflight.Box = prev.Pending.Box
}

func (r *Root) collectOutputWMStack(o *Output) {
	for _, v := range o.Pending.WMStack.Views() {
		v.WMLink(PhaseInflight).MoveTo(o.Inflight.WMStack)
	}
}

// reconcileIncomingFullscreen finalizes output.Inflight.Fullscreen from
// the just-computed election, placing the newly fullscreen view (if any)
// at the output's effective resolution.
func (r *Root) reconcileIncomingFullscreen(o *Output) {
	if o.Pending.Fullscreen == o.Inflight.Fullscreen {
		return
	}
	if incoming := o.Pending.Fullscreen; incoming != nil {
		incoming.PostFullscreenBox = incoming.Current.Box
		incoming.Pending.Box = o.EffectiveBox()
		incoming.Inflight.Box = incoming.Pending.Box
	}
	o.Inflight.Fullscreen = o.Pending.Fullscreen
}

// maybeStartLayoutDemand starts a layout demand sized to the output's
// tileable inflight views, if it has a generator and at least one such
// view.
//
// TODO: a demand is always (re)started when count > 0, even if the count
// is unchanged from the last transaction; worth skipping once generators
// can report whether their last layout is still valid for an unchanged
// count.
func (r *Root) maybeStartLayoutDemand(o *Output) {
	if o.Generator == nil {
		return
	}
	count := 0
	o.Inflight.WMStack.ForEach(func(v *View) {
		if !v.Inflight.Float && !v.Inflight.Fullscreen &&
			(v.Inflight.Tags&o.Inflight.Tags) != 0 {
			count++
		}
	})
	if count == 0 {
		return
	}
	o.LayoutDemand = &LayoutDemand{Count: count}
	o.Generator.StartLayoutDemand(count)
	r.inflightLayoutDemands++
}

// sendConfigures walks every inflight view, configuring those that need it,
// and arms the 200ms timeout.
func (r *Root) sendConfigures() {
	r.state = txAwaitingConfigures
	r.inflightConfigures = 0

	for _, v := range r.allInflightViews() {
		if !v.NeedsConfigure() {
			continue
		}
		if _, err := v.Configure(); err != nil {
			cfgErr := &Error{Kind: ErrAllocationFailure, View: v.ID, Err: err}
			r.logger.Error("configure failed", slog.Any("error", cfgErr))
			continue
		}
		if !v.IsX11() {
			r.inflightConfigures++
		}
		v.SaveSurfaceTree()
		v.SendFrameDone()
	}

	if r.inflightConfigures == 0 {
		r.commit()
		return
	}

	timer := r.clock.AfterFunc(ConfigureTimeout, r.onConfigureTimeout)
	if timer == nil {
		timerErr := &Error{Kind: ErrTimerArmFailure, Err: fmt.Errorf("clock returned a nil timer")}
		r.logger.Error("failed to arm configure timer, committing immediately",
			slog.Any("error", timerErr), slog.Int("pending_configures", r.inflightConfigures))
		r.inflightConfigures = 0
		r.commit()
		return
	}
	r.timer = timer
}

func (r *Root) onConfigureTimeout() {
	ackErr := &Error{Kind: ErrConfigureAckMissing, Err: fmt.Errorf("%d configures still outstanding", r.inflightConfigures)}
	r.logger.Warn("configure ack timeout, committing with an imperfect frame", slog.Any("error", ackErr))
	r.timer = nil
	r.inflightConfigures = 0
	r.commit()
}

// allInflightViews collects every view currently on some inflight
// focus_stack: hidden's and every active output's. Every view belongs to
// exactly one focus_stack per phase, so this visits each inflight view
// exactly once.
func (r *Root) allInflightViews() []*View {
	views := r.hidden.Inflight.FocusStack.Views()
	for _, o := range r.outputs.active {
		views = append(views, o.Inflight.FocusStack.Views()...)
	}
	return views
}

// commit applies inflight to current, then returns to Idle and re-enters
// ApplyPending if a newer intent arrived mid-flight.
func (r *Root) commit() {
	r.state = txCommitting
	r.performCommit()
	r.state = txIdle
	if r.pendingDirty {
		r.pendingDirty = false
		r.ApplyPending()
	}
}
