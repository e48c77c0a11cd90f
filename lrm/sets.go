package lrm

import (
	"github.com/mayuresh82/go-gmpls-te/telink"
)

// The set-valued link attributes: SRLGs, the bandwidth calendar and the
// switching capability descriptors. Bulk operations merge every value first
// and take a single advertisement decision.

func (t *Table) GetSRLGs(k LinkKey) ([]uint32, error) {
	t.Lock()
	defer t.Unlock()
	l, err := t.getLink(k)
	if err != nil {
		return nil, t.done(err)
	}
	return append([]uint32{}, l.attrs.SRLGs...), nil
}

// AppendSRLGs adds the SRLGs the link is not in yet.
func (t *Table) AppendSRLGs(k LinkKey, srlgs []uint32) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.appendSRLGs(k, srlgs))
}

func (t *Table) appendSRLGs(k LinkKey, srlgs []uint32) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	attrs := l.attrs.Clone()
	for _, s := range telink.DiffSRLG(srlgs, attrs.SRLGs) {
		if len(telink.DiffSRLG([]uint32{s}, attrs.SRLGs)) == 0 {
			// duplicate within srlgs
			continue
		}
		attrs.SRLGs = append(attrs.SRLGs, s)
	}
	attrs.Mask |= telink.AttrSRLGs
	return t.commitLink(l, attrs, l.cal)
}

// RemoveSRLGs takes the link out of the given SRLGs. SRLGs the link is not in
// are ignored.
func (t *Table) RemoveSRLGs(k LinkKey, srlgs []uint32) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.removeSRLGs(k, srlgs))
}

func (t *Table) removeSRLGs(k LinkKey, srlgs []uint32) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	if !l.attrs.Has(telink.AttrSRLGs) {
		return newError(NotFound, "link %s has no SRLGs", k)
	}
	attrs := l.attrs.Clone()
	attrs.SRLGs = telink.DiffSRLG(l.attrs.SRLGs, srlgs)
	if len(attrs.SRLGs) == 0 {
		attrs.SRLGs = nil
		attrs.Mask &^= telink.AttrSRLGs
	}
	return t.commitLink(l, attrs, l.cal)
}

// GetCalendar returns the link's calendar events in time order. A zero to
// means no upper bound.
func (t *Table) GetCalendar(k LinkKey, from, to uint32) ([]telink.CalendarEvent, error) {
	t.Lock()
	defer t.Unlock()
	l, err := t.getLink(k)
	if err != nil {
		return nil, t.done(err)
	}
	if to == 0 {
		events := l.cal.events()
		for len(events) > 0 && events[0].Time < from {
			events = events[1:]
		}
		return events, nil
	}
	return l.cal.between(from, to), nil
}

func (t *Table) AppendCalendar(k LinkKey, events []telink.CalendarEvent) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.appendCalendar(k, events))
}

func (t *Table) appendCalendar(k LinkKey, events []telink.CalendarEvent) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	cal := l.cal.clone()
	cal.insert(events...)
	return t.commitLink(l, l.attrs.Clone(), cal)
}

// RemoveCalendar deletes the events that exactly match one of events.
func (t *Table) RemoveCalendar(k LinkKey, events []telink.CalendarEvent) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.removeCalendar(k, events))
}

func (t *Table) removeCalendar(k LinkKey, events []telink.CalendarEvent) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	cal := l.cal.clone()
	if cal.remove(events...) == 0 {
		return newError(NotFound, "link %s: no such calendar events", k)
	}
	return t.commitLink(l, l.attrs.Clone(), cal)
}

// PruneCalendar drops the events that start before the given time and returns
// them.
func (t *Table) PruneCalendar(k LinkKey, before uint32) ([]telink.CalendarEvent, error) {
	t.Lock()
	defer t.Unlock()
	l, err := t.getLink(k)
	if err != nil {
		return nil, t.done(err)
	}
	cal := l.cal.clone()
	old := cal.pruneBefore(before)
	if len(old) == 0 {
		return nil, nil
	}
	if err := t.commitLink(l, l.attrs.Clone(), cal); err != nil {
		return nil, t.done(err)
	}
	return old, nil
}

func (t *Table) GetISCs(k LinkKey) ([]telink.ISCD, error) {
	t.Lock()
	defer t.Unlock()
	l, err := t.getLink(k)
	if err != nil {
		return nil, t.done(err)
	}
	return append([]telink.ISCD{}, l.attrs.ISCs...), nil
}

// AppendISC adds a switching capability descriptor. A descriptor with the
// same switching capability and encoding as an existing one replaces it, and
// an exact match is rejected.
func (t *Table) AppendISC(k LinkKey, d telink.ISCD) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.appendISC(k, d))
}

func (t *Table) appendISC(k LinkKey, d telink.ISCD) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	if len(telink.DiffISCs([]telink.ISCD{d}, l.attrs.ISCs)) == 0 {
		return newError(AlreadyExists, "link %s already has ISCD %s", k, d)
	}
	attrs := l.attrs.Clone()
	attrs.ISCs = telink.UniqueISCs(append(attrs.ISCs, d))
	attrs.Mask |= telink.AttrISCs
	return t.commitLink(l, attrs, l.cal)
}

// RemoveISC removes every descriptor matching d.
func (t *Table) RemoveISC(k LinkKey, d telink.ISCD) error {
	t.Lock()
	defer t.Unlock()
	return t.done(t.removeISC(k, d))
}

func (t *Table) removeISC(k LinkKey, d telink.ISCD) error {
	l, err := t.getLink(k)
	if err != nil {
		return err
	}
	attrs := l.attrs.Clone()
	attrs.ISCs = telink.DiffISCs(l.attrs.ISCs, []telink.ISCD{d})
	if len(attrs.ISCs) == len(l.attrs.ISCs) {
		return newError(NotFound, "link %s has no ISCD %s", k, d)
	}
	if len(attrs.ISCs) == 0 {
		attrs.ISCs = nil
		attrs.Mask &^= telink.AttrISCs
	}
	return t.commitLink(l, attrs, l.cal)
}
