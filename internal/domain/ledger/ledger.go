// Package ledger holds ingredient ledgers: food name to quantity mappings
// that can be merged across recipes with unit conversion.
package ledger

import (
	"strings"

	"github.com/alchemorsel/dietplanner/internal/domain/units"
)

// Entry is a single food line of a ledger
type Entry struct {
	Food     string
	Quantity units.Quantity
}

// Ledger maps normalised food names to quantities.
// Insertion order is kept so serialisation is deterministic.
// The zero value is not usable; call New.
type Ledger struct {
	order   []string
	entries map[string]units.Quantity
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		order:   []string{},
		entries: make(map[string]units.Quantity),
	}
}

// FromEntries builds a ledger; a repeated food keeps the last quantity
func FromEntries(entries ...Entry) *Ledger {
	l := New()
	for _, e := range entries {
		l.Set(e.Food, e.Quantity)
	}
	return l
}

// Normalize returns the lookup key for a food name
func Normalize(food string) string {
	return strings.ToLower(strings.TrimSpace(food))
}

// Set stores q under food, replacing any existing entry
func (l *Ledger) Set(food string, q units.Quantity) {
	key := Normalize(food)
	if _, exists := l.entries[key]; !exists {
		l.order = append(l.order, key)
	}
	l.entries[key] = q
}

// Get returns the quantity recorded for food
func (l *Ledger) Get(food string) (units.Quantity, bool) {
	if l == nil {
		return units.Quantity{}, false
	}
	q, ok := l.entries[Normalize(food)]
	return q, ok
}

// Delete removes food and reports whether it was present
func (l *Ledger) Delete(food string) bool {
	key := Normalize(food)
	if _, ok := l.entries[key]; !ok {
		return false
	}
	delete(l.entries, key)
	for i, name := range l.order {
		if name == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of foods
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// Names returns the food names in insertion order
func (l *Ledger) Names() []string {
	if l == nil {
		return []string{}
	}
	names := make([]string, len(l.order))
	copy(names, l.order)
	return names
}

// Entries returns the ledger lines in insertion order
func (l *Ledger) Entries() []Entry {
	if l == nil {
		return []Entry{}
	}
	out := make([]Entry, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, Entry{Food: name, Quantity: l.entries[name]})
	}
	return out
}

// Clone returns an independent copy
func (l *Ledger) Clone() *Ledger {
	c := New()
	if l == nil {
		return c
	}
	c.order = append(c.order, l.order...)
	for k, v := range l.entries {
		c.entries[k] = v
	}
	return c
}

// Equal reports whether both ledgers hold the same foods, units and magnitudes
func (l *Ledger) Equal(other *Ledger) bool {
	if l.Len() != other.Len() {
		return false
	}
	for _, e := range l.Entries() {
		q, ok := other.Get(e.Food)
		if !ok || q != e.Quantity {
			return false
		}
	}
	return true
}
