package scan

// Cursor tracks the channel currently being sampled and how many samples
// have completed on it since the last hop.
type Cursor struct {
	channel int
	samples int
}

// Channel returns the index of the channel the cursor currently points at.
func (c *Cursor) Channel() int {
	return c.channel
}

// SamplesOnChannel returns the number of samples completed on the current
// channel since the last hop.
func (c *Cursor) SamplesOnChannel() int {
	return c.samples
}

// Advance records one completed sample. When the per-channel sample count
// reaches SamplesPerHop the counter resets and the cursor moves to the next
// channel, wrapping after the last one. It reports whether a hop occurred.
func (c *Cursor) Advance() bool {
	c.samples++
	if c.samples < SamplesPerHop {
		return false
	}

	c.samples = 0
	c.channel = (c.channel + 1) % NumChannels
	return true
}
