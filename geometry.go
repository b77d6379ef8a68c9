package tessera

// Box is an axis-aligned rectangle in layout (or surface-local) coordinates.
// The origin is top-left; Y increases downward, matching Wayland's
// convention.
type Box struct {
	X, Y          int32
	Width, Height int32
}

// Contains reports whether the point (x, y) lies inside the box. Points on
// the edge are considered inside.
func (b Box) Contains(x, y int32) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Clamp returns b translated and shrunk so it fits entirely within bound,
// preserving width/height where possible. Used when a view's saved float
// geometry no longer fits the output it is returning to.
func (b Box) Clamp(bound Box) Box {
	out := b
	if out.Width > bound.Width {
		out.Width = bound.Width
	}
	if out.Height > bound.Height {
		out.Height = bound.Height
	}
	if out.X < bound.X {
		out.X = bound.X
	}
	if out.Y < bound.Y {
		out.Y = bound.Y
	}
	if out.X+out.Width > bound.X+bound.Width {
		out.X = bound.X + bound.Width - out.Width
	}
	if out.Y+out.Height > bound.Y+bound.Height {
		out.Y = bound.Y + bound.Height - out.Height
	}
	return out
}
