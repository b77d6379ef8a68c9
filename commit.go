package tessera

import "log/slog"

// performCommit applies inflight state to current, atomically from any
// external observer's point of view since it all happens within one
// event-loop turn.
func (r *Root) performCommit() {
	destroying := r.commitHidden()

	for _, o := range r.outputs.active {
		r.commitOutput(o)
	}

	for _, seat := range r.seats {
		seat.UpdateCursorState()
	}

	for _, v := range destroying {
		v.Destroy()
	}

	if r.idleInhibitCheck != nil {
		r.idleInhibitCheck()
	}
}

// commitHidden promotes hidden's inflight focus_stack to current and
// returns the views found with Destroying set, to be reclaimed after the
// rest of the commit has run.
func (r *Root) commitHidden() []*View {
	views := r.hidden.Inflight.FocusStack.Views()
	var destroying []*View
	for _, v := range views {
		assert(v.Inflight.Output == nil, "hidden inflight view has an output")
		v.Current.Output = nil
		v.Tree.Reparent(r.hidden.tree)
		if v.PopupTree != nil {
			v.PopupTree.Reparent(r.hidden.tree)
		}
		v.UpdateCurrent()
		v.FocusLink(PhaseCurrent).MoveTo(r.hidden.Current.FocusStack)
		if v.Destroying {
			destroying = append(destroying, v)
		}
	}
	for _, v := range r.hidden.Inflight.WMStack.Views() {
		v.WMLink(PhaseCurrent).MoveTo(r.hidden.Current.WMStack)
	}
	return destroying
}

// commitOutput promotes one active output's inflight state to current.
func (r *Root) commitOutput(o *Output) {
	if o.Inflight.Tags != o.Current.Tags {
		r.logger.Debug("output tags changed", slog.String("output", o.Backend.Name()),
			slog.Uint64("tags", uint64(o.Inflight.Tags)))
	}
	o.Current.Tags = o.Inflight.Tags

	for _, v := range o.Inflight.FocusStack.Views() {
		assert(v.Inflight.Output == o, "inflight focus_stack view's output mismatch")

		v.InflightSerial = 0

		leavingFullscreen := o.Inflight.Fullscreen != v && o.Current.Fullscreen == v
		outputChanged := v.Current.Output != v.Inflight.Output
		if outputChanged || leavingFullscreen {
			r.reparentViewToLayer(o, v)
		}
		if v.Current.Float != v.Inflight.Float {
			// Fires on every float transition, even when the branch above
			// already placed the view (an output change or fullscreen exit
			// in the same transaction), making the second reparent a
			// repeat of the first.
			r.reparentViewToLayer(o, v)
		}
		if v.PopupTree != nil {
			v.PopupTree.Reparent(o.Layers.Popups)
		}

		v.UpdateCurrent()

		enabled := (v.Current.Tags & o.Current.Tags) != 0
		v.Tree.SetEnabled(enabled)
		if v.PopupTree != nil {
			v.PopupTree.SetEnabled(enabled)
		}

		if v != o.Inflight.Fullscreen {
			lowerToBottom(v.Tree)
		}

		v.FocusLink(PhaseCurrent).MoveTo(o.Current.FocusStack)
	}
	for _, v := range o.Inflight.WMStack.Views() {
		v.WMLink(PhaseCurrent).MoveTo(o.Current.WMStack)
	}

	if o.Inflight.Fullscreen != o.Current.Fullscreen {
		if fs := o.Inflight.Fullscreen; fs != nil {
			fs.Tree.Reparent(o.Layers.Fullscreen)
		}
		o.Current.Fullscreen = o.Inflight.Fullscreen
		o.Layers.Fullscreen.SetEnabled(o.Current.Fullscreen != nil)
	}

	o.Backend.PublishStatus(o.Current.Tags, o.Urgent)
}

// reparentViewToLayer places v's tree under the layer its incoming
// (inflight) float state calls for. Called before v.UpdateCurrent copies
// Inflight into Current, so it must read Inflight here, not Current.
func (r *Root) reparentViewToLayer(o *Output, v *View) {
	if v.Inflight.Float {
		v.Tree.Reparent(o.Layers.Float)
	} else {
		v.Tree.Reparent(o.Layers.Layout)
	}
}

// lowerToBottom moves n to the bottom (drawn-first) position among its
// parent's children. This may over-damage the scene versus a more
// selective restack, but keeps the relayering logic simple.
func lowerToBottom(n *Node) {
	p := n.Parent
	if p == nil {
		return
	}
	p.removeChildByPtr(n)
	p.children = append(p.children, nil)
	copy(p.children[1:], p.children[:len(p.children)-1])
	p.children[0] = n
}
