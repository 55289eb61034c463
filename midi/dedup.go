package midi

// Dedup drops a message identical to the one just before it. The Launchpad
// never sends the same message twice in a row, so a repeat is line noise.
type Dedup struct {
	last uint32
	seen bool
}

// Accept reports whether ev differs from the previous event and remembers it.
func (d *Dedup) Accept(ev Event) bool {
	raw := ev.Raw()
	if d.seen && raw == d.last {
		return false
	}
	d.last = raw
	d.seen = true
	return true
}

// Reset forgets the previous event.
func (d *Dedup) Reset() {
	d.seen = false
	d.last = 0
}
