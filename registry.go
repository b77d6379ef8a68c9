package tessera

// outputRegistry holds the two output lists: every output
// the backend has ever advertised that still exists (all), and the
// currently active ones (active). The add/remove algorithms themselves
// live on Root, since they need the hidden area, seats, and the
// transaction engine — outputRegistry itself is just list bookkeeping.
type outputRegistry struct {
	all    []*Output
	active []*Output
}

func containsOutput(list []*Output, o *Output) bool {
	for _, x := range list {
		if x == o {
			return true
		}
	}
	return false
}

func removeOutput(list []*Output, o *Output) []*Output {
	for i, x := range list {
		if x == o {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// AddOutput registers o as active. Idempotent: adding an already-active
// output is a no-op.
func (r *Root) AddOutput(o *Output) {
	if containsOutput(r.outputs.active, o) {
		return
	}
	if !containsOutput(r.outputs.all, o) {
		r.outputs.all = append(r.outputs.all, o)
	}
	r.outputs.active = append(r.outputs.active, o)

	x, y := r.layout.autoPosition(o)
	o.Tree.X, o.Tree.Y = x, y
	o.Tree.Enabled = true
	r.topology.Outputs.AddChild(o.Tree)
	r.layout.publish()

	if len(r.outputs.active) == 1 {
		o.Pending.Tags = r.hidden.Pending.Tags
		for _, v := range r.hidden.Pending.FocusStack.Views() {
			v.SetPendingOutput(o)
		}
		assert(r.hidden.Pending.FocusStack.Len() == 0, "hidden pending focus_stack non-empty after migration")
		assert(r.hidden.Pending.WMStack.Len() == 0, "hidden pending wm_stack non-empty after migration")
		// Views evacuated by an earlier RemoveOutput stay on hidden's
		// inflight stacks until the next Collecting; they must all be
		// headed for o now.
		for _, v := range r.hidden.Inflight.FocusStack.Views() {
			assert(v.Pending.Output == o, "hidden inflight view not migrated to the first output")
		}

		for _, seat := range r.seats {
			seat.FocusOutput(o)
		}
		r.ApplyPending()
	}
}

// RemoveOutput tears o down and evacuates its views. Idempotent: removing
// an output that isn't active is a no-op.
func (r *Root) RemoveOutput(o *Output) {
	if !containsOutput(r.outputs.active, o) {
		return
	}
	r.outputs.active = removeOutput(r.outputs.active, o)

	if o.LayoutDemand != nil {
		if o.Generator != nil {
			o.Generator.Cancel()
		}
		o.LayoutDemand = nil
		if r.inflightLayoutDemands > 0 {
			r.inflightLayoutDemands--
		}
	}
	if o.Generator != nil {
		o.Generator.Destroy()
		o.Generator = nil
	}

	r.evacuateInflight(o)
	r.evacuatePending(o)

	for _, n := range []*Node{o.Layers.Overlay, o.Layers.Top, o.Layers.Bottom, o.Layers.Background} {
		n.Dispose()
	}

	fallback := r.firstActiveOutput()
	for _, seat := range r.seats {
		if seat.FocusedOutput() == o {
			seat.FocusOutput(fallback)
		}
	}

	r.outputs.all = removeOutput(r.outputs.all, o)
	o.Tree.Dispose()
	r.layout.forget(o)
	r.layout.publish()

	r.ApplyPending()

	if r.inflightLayoutDemands == 0 && r.state == txAwaitingLayout {
		r.sendConfigures()
	}
}

// evacuateInflight moves o's inflight stacks to hidden's, preserving order.
func (r *Root) evacuateInflight(o *Output) {
	for _, v := range o.Inflight.FocusStack.Views() {
		v.Inflight.Output = nil
		v.Current.Output = nil
		v.Tree.Reparent(r.hidden.tree)
		if v.PopupTree != nil {
			v.PopupTree.Reparent(r.hidden.tree)
		}
	}
	r.hidden.Inflight.FocusStack.PrependAll(o.Inflight.FocusStack)
	r.hidden.Inflight.WMStack.PrependAll(o.Inflight.WMStack)
}

// evacuatePending moves o's pending stacks to a fallback output, or to
// hidden (saving tags for restoration) if none remains.
func (r *Root) evacuatePending(o *Output) {
	fallback := r.firstActiveOutput()
	if fallback != nil {
		for _, v := range o.Pending.FocusStack.Views() {
			v.SetPendingOutput(fallback)
		}
		return
	}
	r.hidden.Pending.Tags = o.Pending.Tags
	for _, v := range o.Pending.FocusStack.Views() {
		v.Pending.Output = nil
	}
	r.hidden.Pending.FocusStack.PrependAll(o.Pending.FocusStack)
	r.hidden.Pending.WMStack.PrependAll(o.Pending.WMStack)
}

func (r *Root) firstActiveOutput() *Output {
	if len(r.outputs.active) == 0 {
		return nil
	}
	return r.outputs.active[0]
}
