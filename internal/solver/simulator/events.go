package simulator

import (
	"fmt"

	"github.com/napolitain/solver-idle/internal/models"
	"github.com/napolitain/solver-idle/internal/solver/optimizer"
)

// EventKind identifies what happened during a simulation
type EventKind int

const (
	EventPurchase EventKind = iota
	EventAscend
	EventTick
	EventClick
	EventBuff
	EventUnlock
)

// String returns a string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventPurchase:
		return "Purchase"
	case EventAscend:
		return "Ascend"
	case EventTick:
		return "Tick"
	case EventClick:
		return "Click"
	case EventBuff:
		return "Buff"
	case EventUnlock:
		return "Unlock"
	default:
		return "Unknown"
	}
}

// Event is delivered to observers
type Event struct {
	Kind     EventKind
	Time     float64 // total simulated seconds, across ascensions
	Payload  any     // one of the *Payload types below
	Sequence int64   // emission order within the simulator
}

// PurchasePayload accompanies EventPurchase
type PurchasePayload struct {
	Option optimizer.PurchaseOption
	Count  int
	Auto   bool // made by the auto-purchase policy
}

// AscendPayload accompanies EventAscend
type AscendPayload struct {
	Gained   float64
	Prestige float64
	Carried  float64
}

// TickPayload accompanies EventTick
type TickPayload struct {
	Dt       float64
	Rate     float64
	Produced float64
}

// ClickPayload accompanies EventClick
type ClickPayload struct {
	Clicks int
	Earned float64
}

// BuffPayload accompanies EventBuff
type BuffPayload struct {
	Name    string
	Buff    models.Buff
	Expired bool
}

// UnlockPayload accompanies EventUnlock
type UnlockPayload struct {
	Upgrades     []string
	Achievements []string
}

// Observer reacts to an event. It receives a copy of the state, so it cannot
// change the simulation. Returned errors are logged and otherwise ignored.
type Observer func(s *models.GameState, e Event) error

// On registers an observer. Observers of one kind run in registration order.
func (sim *Simulator) On(kind EventKind, fn Observer) {
	if fn == nil {
		return
	}
	if sim.observers == nil {
		sim.observers = make(map[EventKind][]Observer)
	}
	sim.observers[kind] = append(sim.observers[kind], fn)
}

func (sim *Simulator) emit(kind EventKind, payload any) {
	sim.sequence++
	handlers := sim.observers[kind]
	if len(handlers) == 0 {
		return
	}
	e := Event{
		Kind:     kind,
		Time:     sim.stats.TotalTime,
		Payload:  payload,
		Sequence: sim.sequence,
	}
	view := sim.state.Clone()
	for i, fn := range handlers {
		sim.invoke(i, fn, view, e)
	}
}

// invoke runs one observer, containing its errors and panics
func (sim *Simulator) invoke(index int, fn Observer, view *models.GameState, e Event) {
	defer func() {
		if r := recover(); r != nil {
			sim.log.Warn("observer panicked",
				"run", sim.runID, "event", e.Kind.String(), "observer", index, "panic", fmt.Sprint(r))
		}
	}()
	if err := fn(view, e); err != nil {
		sim.log.Warn("observer failed",
			"run", sim.runID, "event", e.Kind.String(), "observer", index, "error", err)
	}
}
