package tessera

// Seat is the external input-seat collaborator. The core never manages
// keyboard/pointer focus policy itself; it only calls back into each seat
// at the points the transaction pipeline requires.
type Seat interface {
	// Focus asks the seat to (re)compute keyboard focus. The core calls it
	// only with nil, once per seat during Collecting, to let the seat
	// recompute against pending state before it is snapshotted.
	Focus(surface *Node)
	// FocusOutput retargets the seat's focused output, or clears it when
	// output is nil. Called when an output is removed and the seat was
	// focused on it.
	FocusOutput(output *Output)
	// FocusedOutput returns the output this seat is currently focused on,
	// or nil. Queried by Root.RemoveOutput to decide which seats need
	// refocusing.
	FocusedOutput() *Output
	// UpdateCursorState refreshes the seat's cursor (move/resize targets
	// may have been retargeted by a commit). Called once per Committing
	// pass.
	UpdateCursorState()
}
