package resource

// Descriptor is a resource as submitted by a peer: either a network resource,
// a grid resource, or both.
type Descriptor struct {
	Net  *NetResSpec
	Grid *GridResSpec
}

func (d Descriptor) hasNet() bool {
	return d.Net != nil && d.Net.Mask != 0
}

func (d Descriptor) hasGrid() bool {
	return d.Grid != nil && d.Grid.Mask != 0
}

// Validate tries the network resource first and falls back to the grid
// resource. It fails if neither is declared or neither validates.
func (d Descriptor) Validate() error {
	if !d.hasNet() && !d.hasGrid() {
		return invalid("descriptor", "Descriptor.Validate: no resource declared")
	}
	var err error
	if d.hasNet() {
		if err = d.Net.Validate(); err == nil {
			return nil
		}
	}
	if d.hasGrid() {
		return d.Grid.Validate()
	}
	return err
}

// Clone returns a deep copy of d.
func (d Descriptor) Clone() Descriptor {
	var c Descriptor
	if d.Net != nil {
		n := *d.Net
		c.Net = &n
	}
	if d.Grid != nil {
		g := d.Grid.Clone()
		c.Grid = &g
	}
	return c
}

// Merge merges src into d field by field, allocating the sub-descriptors on
// first use.
func (d *Descriptor) Merge(src Descriptor) {
	if src.Net != nil {
		if d.Net == nil {
			d.Net = &NetResSpec{}
		}
		d.Net.Merge(*src.Net)
	}
	if src.Grid != nil {
		if d.Grid == nil {
			d.Grid = &GridResSpec{}
		}
		d.Grid.Merge(*src.Grid)
	}
}

// MergeValid merges src into d only if the merged descriptor validates.
func (d *Descriptor) MergeValid(src Descriptor) error {
	tmp := d.Clone()
	tmp.Merge(src)
	if err := tmp.Validate(); err != nil {
		return err
	}
	*d = tmp
	return nil
}

func (d Descriptor) Equal(o Descriptor) bool {
	if (d.Net == nil) != (o.Net == nil) || (d.Grid == nil) != (o.Grid == nil) {
		return false
	}
	if d.Net != nil && !d.Net.Equal(*o.Net) {
		return false
	}
	if d.Grid != nil && !d.Grid.Equal(*o.Grid) {
		return false
	}
	return true
}
