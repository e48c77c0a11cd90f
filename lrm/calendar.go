package lrm

import (
	"github.com/google/btree"

	"github.com/mayuresh82/go-gmpls-te/telink"
)

const calendarDegree = 8

// calendar is the bandwidth calendar of one link, ordered by time and then by
// bandwidth. Identical events collapse into one.
type calendar struct {
	tree *btree.BTreeG[telink.CalendarEvent]
}

func lessEvent(a, b telink.CalendarEvent) bool {
	return a.Less(b)
}

func newCalendar(events []telink.CalendarEvent) *calendar {
	c := &calendar{tree: btree.NewG(calendarDegree, lessEvent)}
	c.insert(events...)
	return c
}

// insert adds the events and returns how many were not there yet.
func (c *calendar) insert(events ...telink.CalendarEvent) (added int) {
	for _, e := range events {
		if _, replaced := c.tree.ReplaceOrInsert(e); !replaced {
			added++
		}
	}
	return
}

// remove deletes the events and returns how many were found.
func (c *calendar) remove(events ...telink.CalendarEvent) (removed int) {
	for _, e := range events {
		if _, found := c.tree.Delete(e); found {
			removed++
		}
	}
	return
}

// pruneBefore deletes every event that starts before t.
func (c *calendar) pruneBefore(t uint32) []telink.CalendarEvent {
	var old []telink.CalendarEvent
	c.tree.AscendLessThan(telink.CalendarEvent{Time: t}, func(e telink.CalendarEvent) bool {
		old = append(old, e)
		return true
	})
	c.remove(old...)
	return old
}

// between returns the events in [from, to).
func (c *calendar) between(from, to uint32) []telink.CalendarEvent {
	var out []telink.CalendarEvent
	c.tree.AscendRange(telink.CalendarEvent{Time: from}, telink.CalendarEvent{Time: to},
		func(e telink.CalendarEvent) bool {
			out = append(out, e)
			return true
		})
	return out
}

func (c *calendar) events() []telink.CalendarEvent {
	out := make([]telink.CalendarEvent, 0, c.tree.Len())
	c.tree.Ascend(func(e telink.CalendarEvent) bool {
		out = append(out, e)
		return true
	})
	return out
}

func (c *calendar) len() int {
	return c.tree.Len()
}

func (c *calendar) clone() *calendar {
	return &calendar{tree: c.tree.Clone()}
}
