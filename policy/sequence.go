package policy

// NextFrame returns the frame that follows current when rendering a
// sequence ending at end with the given step. The last step is shortened so
// that end itself is always rendered. The second result is false once the
// sequence is exhausted.
func NextFrame(current, end, step int) (int, bool) {
	if step < 1 {
		step = 1
	}

	var next int
	switch {
	case step > 1 && current < end-step+1:
		next = current + step
	case step > 1 && current == end-step+1:
		next = end
	default:
		next = current + step
	}

	if next > end {
		return current, false
	}
	return next, true
}
