package expect

import (
	"fmt"
	"sort"
)

// Arranger owns at most one expectation unit of each kind and runs them
// as a group against an outcome.
type Arranger struct {
	units map[Kind]Expectation
}

func NewArranger() *Arranger {
	return &Arranger{units: make(map[Kind]Expectation)}
}

// GetOrAdd returns the unit registered under kind, creating it with
// factory on first use.
func (a *Arranger) GetOrAdd(kind Kind, factory func() Expectation) Expectation {
	if u, ok := a.units[kind]; ok {
		return u
	}
	u := factory()
	if u.Kind() != kind {
		panic(fmt.Sprintf("arranger: factory for kind %v produced a %v unit", kind, u.Kind()))
	}
	a.units[kind] = u
	return u
}

// Unit returns the typed unit registered under kind, creating it with
// factory on first use.
func Unit[T Expectation](a *Arranger, kind Kind, factory func() T) T {
	u := a.GetOrAdd(kind, func() Expectation { return factory() })
	return u.(T)
}

// Registered reports whether a unit exists for kind.
func (a *Arranger) Registered(kind Kind) bool {
	_, ok := a.units[kind]
	return ok
}

// Assert runs every registered unit against the outcome in ascending
// priority order. Every unit's run state is reset afterward, whatever
// the assertions (or a panic) did.
func (a *Arranger) Assert(o *Outcome, s Sink) {
	units := make([]Expectation, 0, len(a.units))
	for _, u := range a.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].Priority() != units[j].Priority() {
			return units[i].Priority() < units[j].Priority()
		}
		return units[i].Kind() < units[j].Kind()
	})
	defer func() {
		for _, u := range units {
			u.Reset()
		}
	}()
	for _, u := range units {
		u.Assert(o, s)
	}
}

// Clear removes every registered unit, configuration included.
func (a *Arranger) Clear() {
	a.units = make(map[Kind]Expectation)
}
