// Package advert decides what a link-state engine has to do with the TE
// attributes of a link or node each time they are submitted: originate them,
// refresh them, flush them or nothing at all.
package advert

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/mayuresh82/go-gmpls-te/telink"
)

type State int

const (
	Unadvertised State = 0
	Advertised   State = 1
)

var stateToName = map[State]string{
	Unadvertised: "UNADVERTISED",
	Advertised:   "ADVERTISED",
}

func (s State) String() string {
	if name, ok := stateToName[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

type Action int

const (
	NoOp        Action = 0
	Reoriginate Action = 1
	Refresh     Action = 2
	Flush       Action = 3
)

var actionToName = map[Action]string{
	NoOp:        "NO_OP",
	Reoriginate: "REORIGINATE",
	Refresh:     "REFRESH",
	Flush:       "FLUSH",
}

func (a Action) String() string {
	if name, ok := actionToName[a]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(a))
}

// Actions lists every action.
var Actions = []Action{NoOp, Reoriginate, Refresh, Flush}

// Snapshot is the full attribute set of one link or node at a point in time.
type Snapshot interface {
	// Empty reports whether nothing is declared.
	Empty() bool
	Equal(Snapshot) bool
	Encode() ([]byte, error)
}

// Removed holds the set-valued attributes that disappeared between the
// previously advertised snapshot and the new one.
type Removed struct {
	SRLGs    []uint32
	Calendar []telink.CalendarEvent
	ISCs     []telink.ISCD
}

func (r Removed) Empty() bool {
	return len(r.SRLGs) == 0 && len(r.Calendar) == 0 && len(r.ISCs) == 0
}

// Decision is what the engine must do. Payload is the encoded snapshot for
// Reoriginate and Refresh, and the last advertised encoding for Flush.
type Decision struct {
	Action  Action
	Payload []byte
	Removed Removed
}

func (d Decision) String() string {
	return fmt.Sprintf("%s (%d bytes)", d.Action, len(d.Payload))
}

// Machine tracks the advertisement state of one link or node. It is not safe
// for concurrent use; the owner serializes access.
type Machine struct {
	name    string
	state   State
	last    Snapshot
	payload []byte
}

func NewMachine(name string) *Machine {
	return &Machine{name: name}
}

func (m *Machine) State() State {
	return m.state
}

// Last returns the snapshot currently advertised, or nil.
func (m *Machine) Last() Snapshot {
	return m.last
}

// Submit classifies a new snapshot against what is advertised. An encoding
// failure leaves the machine untouched.
//
// Submitting an empty snapshot while advertised flushes the advertisement.
func (m *Machine) Submit(s Snapshot) (Decision, error) {
	if s == nil || s.Empty() {
		if m.state == Unadvertised {
			return Decision{Action: NoOp}, nil
		}
		return m.Remove(), nil
	}
	if m.state == Advertised && m.last.Equal(s) {
		glog.V(4).Infof("%s: no change, nothing to advertise", m.name)
		return Decision{Action: NoOp}, nil
	}
	payload, err := s.Encode()
	if err != nil {
		return Decision{}, errors.Wrapf(err, "%s: encode", m.name)
	}
	d := Decision{Action: Reoriginate, Payload: payload}
	if m.state == Advertised {
		d.Action = Refresh
		d.Removed = removed(m.last, s)
	}
	glog.V(2).Infof("%s: %s -> %s, %s", m.name, m.state, Advertised, d)
	m.state, m.last, m.payload = Advertised, s, payload
	return d, nil
}

// Remove withdraws the advertisement, if any.
func (m *Machine) Remove() Decision {
	if m.state == Unadvertised {
		return Decision{Action: NoOp}
	}
	d := Decision{Action: Flush, Payload: m.payload}
	if l, ok := m.last.(LinkSnapshot); ok {
		d.Removed = removed(l, LinkSnapshot{})
	}
	glog.V(2).Infof("%s: %s -> %s, %s", m.name, m.state, Unadvertised, d)
	m.state, m.last, m.payload = Unadvertised, nil, nil
	return d
}

func removed(prev, cur Snapshot) Removed {
	o, ok := prev.(LinkSnapshot)
	if !ok {
		return Removed{}
	}
	n, _ := cur.(LinkSnapshot)
	r := Removed{}
	if o.Has(telink.AttrSRLGs) {
		r.SRLGs = telink.DiffSRLG(o.SRLGs, n.SRLGs)
	}
	if o.Has(telink.AttrCalendar) {
		r.Calendar = telink.DiffCalendar(o.Calendar, n.Calendar)
	}
	if o.Has(telink.AttrISCs) {
		r.ISCs = telink.DiffISCs(o.ISCs, n.ISCs)
	}
	return r
}
