package ledger

import (
	"github.com/alchemorsel/dietplanner/internal/domain/units"
)

// Add merges one food into the ledger. An existing entry keeps its unit
// and q is converted into it; a new food is inserted as given.
func (l *Ledger) Add(conv *units.Converter, food string, q units.Quantity) error {
	key := Normalize(food)
	existing, ok := l.entries[key]
	if !ok {
		l.Set(key, q)
		return nil
	}

	sum, err := conv.Add(existing, q)
	if err != nil {
		return err
	}
	l.entries[key] = sum
	return nil
}

// Merge folds src into l. Either every entry merges or l is left untouched.
func (l *Ledger) Merge(conv *units.Converter, src *Ledger) error {
	if src.Len() == 0 {
		return nil
	}
	if src == l {
		src = src.Clone()
	}

	staged := make([]Entry, 0, src.Len())
	for _, e := range src.Entries() {
		existing, ok := l.entries[e.Food]
		if !ok {
			staged = append(staged, e)
			continue
		}
		sum, err := conv.Add(existing, e.Quantity)
		if err != nil {
			return err
		}
		staged = append(staged, Entry{Food: e.Food, Quantity: sum})
	}

	for _, e := range staged {
		l.Set(e.Food, e.Quantity)
	}
	return nil
}

// Sum merges ledgers left to right into a fresh ledger
func Sum(conv *units.Converter, ledgers ...*Ledger) (*Ledger, error) {
	total := New()
	for _, l := range ledgers {
		if err := total.Merge(conv, l); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Total adds every entry of the ledger together in unit
func (l *Ledger) Total(conv *units.Converter, unit units.Unit) (units.Quantity, error) {
	total := units.Of(0, unit)
	for _, e := range l.Entries() {
		converted, err := conv.To(e.Quantity, unit)
		if err != nil {
			return units.Quantity{}, err
		}
		total.Magnitude += converted.Magnitude
	}
	return total, nil
}
