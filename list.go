package tessera

// viewLink is one node of an intrusive doubly-linked list of *View. A View
// embeds six of these (focus/wm × pending/inflight/current, see
// [viewPhaseLinks]) so it belongs to exactly one focus_stack and one wm_stack
// per phase while being relinked between owning lists in O(1), without
// the owning list ever walking its members to find one.
//
// This generalizes the splice-by-index bookkeeping node.go's AddChild/
// RemoveChild used for the scene tree's []*Node children slice: there the
// owner was fixed (a child always belongs to its Parent's slice) and
// removal was an O(n) slice splice; here ownership moves between lists
// constantly (a view migrates between an output's stack and hidden's, or
// between two outputs' stacks) so a slice would make every relink O(n).
// An intrusive link makes unlink O(1) regardless of which list currently
// owns it.
type viewLink struct {
	prev, next *viewLink
	owner      *viewList
	view       *View
}

// linked reports whether this link currently belongs to a list.
func (l *viewLink) linked() bool {
	return l.owner != nil
}

// viewList is a doubly-linked list of views threaded through one of each
// view's viewLink fields. It never allocates: the links live inside the
// views themselves.
type viewList struct {
	head, tail *viewLink
	length     int
}

// newViewList returns an empty list.
func newViewList() *viewList {
	return &viewList{}
}

// Len returns the number of views currently linked into l.
func (l *viewList) Len() int {
	return l.length
}

// PushBack appends the view owning link to the back of l. link must not
// already belong to a list.
func (l *viewList) PushBack(link *viewLink) {
	if link.owner != nil {
		panic("tessera: viewLink already linked")
	}
	link.owner = l
	link.prev = l.tail
	link.next = nil
	if l.tail != nil {
		l.tail.next = link
	} else {
		l.head = link
	}
	l.tail = link
	l.length++
}

// PushFront prepends the view owning link to the front of l. link must
// not already belong to a list.
func (l *viewList) PushFront(link *viewLink) {
	if link.owner != nil {
		panic("tessera: viewLink already linked")
	}
	link.owner = l
	link.next = l.head
	link.prev = nil
	if l.head != nil {
		l.head.prev = link
	} else {
		l.tail = link
	}
	l.head = link
	l.length++
}

// Remove unlinks link from l. No-op if link is not linked; panics if link
// belongs to a different list. O(1).
func (l *viewList) Remove(link *viewLink) {
	if link.owner == nil {
		return
	}
	if link.owner != l {
		panic("tessera: viewLink removed from the wrong list")
	}
	if link.prev != nil {
		link.prev.next = link.next
	} else {
		l.head = link.next
	}
	if link.next != nil {
		link.next.prev = link.prev
	} else {
		l.tail = link.prev
	}
	link.prev, link.next, link.owner = nil, nil, nil
	l.length--
}

// MoveTo unlinks link from its current owner (if any) and appends it to
// dst. This is the "relink" primitive used throughout Collecting and
// Committing to move a view between stacks as its output changes.
func (link *viewLink) MoveTo(dst *viewList) {
	if link.owner != nil {
		link.owner.Remove(link)
	}
	dst.PushBack(link)
}

// PrependAll splices every link currently in src onto the front of l,
// preserving src's internal order, and leaves src empty. The two chains
// are joined with a single relink rather than moving links one at a time;
// the only per-link work is one pass over src to update each link's owner,
// so the cost is O(len(src)).
func (l *viewList) PrependAll(src *viewList) {
	if src.length == 0 {
		return
	}
	for link := src.head; link != nil; link = link.next {
		link.owner = l
	}
	if l.head == nil {
		l.head = src.head
		l.tail = src.tail
	} else {
		src.tail.next = l.head
		l.head.prev = src.tail
		l.head = src.head
	}
	l.length += src.length
	src.head, src.tail, src.length = nil, nil, 0
}

// Views returns the views linked into l, head to tail. Used by callers that
// need a stable snapshot before mutating the list during iteration (commit
// may destroy views).
func (l *viewList) Views() []*View {
	out := make([]*View, 0, l.length)
	for link := l.head; link != nil; link = link.next {
		out = append(out, link.view)
	}
	return out
}

// ForEach walks l head to tail, calling fn with each view. fn must not
// mutate l directly; use Views() first if the list will be modified during
// iteration (e.g. reclaiming destroyed views in Committing).
func (l *viewList) ForEach(fn func(v *View)) {
	for link := l.head; link != nil; link = link.next {
		fn(link.view)
	}
}
