package engine

// Chain is an ordered, named list of elements. Its element list is fixed
// once the owning Engine is finalized; only the active flag and
// chain-scoped data mutate afterward.
type Chain struct {
	Name     string
	Elements []*Element
	AutoFlag bool
	Active   bool

	data any
}

// SetData stores opaque, chain-scoped data that operators and the demo CLI
// can stash (e.g. counters).
func (c *Chain) SetData(v any) { c.data = v }

// Data retrieves whatever SetData last stored, or nil.
func (c *Chain) Data() any { return c.data }

func (c *Chain) elementByName(name string) *Element {
	for _, el := range c.Elements {
		if el.Name == name {
			return el
		}
	}
	return nil
}
