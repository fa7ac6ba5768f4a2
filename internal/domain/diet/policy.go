// Package diet holds the diet policy and the compliance checker.
package diet

import (
	"errors"
	"strings"

	"github.com/alchemorsel/dietplanner/internal/domain/ledger"
	apperrors "github.com/alchemorsel/dietplanner/pkg/errors"
)

// Class is how a policy treats a food
type Class string

const (
	ClassAllowed    Class = "allowed"
	ClassRestricted Class = "restricted"
	ClassBanned     Class = "banned"
)

// Classes returns the classes in record column order
func Classes() []Class {
	return []Class{ClassAllowed, ClassRestricted, ClassBanned}
}

var (
	ErrInvalidClass = errors.New("invalid food class")
	ErrBlankFood    = errors.New("food name must not be blank")
)

// ParseClass parses a class name case-insensitively
func ParseClass(s string) (Class, error) {
	c := Class(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ClassAllowed, ClassRestricted, ClassBanned:
		return c, nil
	}
	return "", apperrors.NewInvalidArgumentError("class", s).WithCause(ErrInvalidClass)
}

// Policy assigns foods to allowed, restricted or banned.
// Each food has at most one class; a food not listed is allowed.
type Policy struct {
	order   []string
	classes map[string]Class
}

// NewPolicy builds a policy from three food lists. A food listed in more
// than one list takes the strictest class (banned, then restricted).
func NewPolicy(allowed, restricted, banned []string) *Policy {
	p := &Policy{classes: make(map[string]Class)}
	for _, list := range []struct {
		foods []string
		class Class
	}{
		{banned, ClassBanned},
		{restricted, ClassRestricted},
		{allowed, ClassAllowed},
	} {
		for _, food := range list.foods {
			key := ledger.Normalize(food)
			if key == "" {
				continue
			}
			if _, seen := p.classes[key]; seen {
				continue
			}
			p.order = append(p.order, key)
			p.classes[key] = list.class
		}
	}
	return p
}

// EmptyPolicy returns a policy that lists nothing
func EmptyPolicy() *Policy {
	return NewPolicy(nil, nil, nil)
}

// Classify returns the class of food
func (p *Policy) Classify(food string) Class {
	if c, ok := p.classes[ledger.Normalize(food)]; ok {
		return c
	}
	return ClassAllowed
}

// Listed reports whether food is named in any list
func (p *Policy) Listed(food string) bool {
	_, ok := p.classes[ledger.Normalize(food)]
	return ok
}

// AddFood puts food in class, moving it out of any other
func (p *Policy) AddFood(food string, class Class) error {
	key := ledger.Normalize(food)
	if key == "" {
		return apperrors.NewValidationError(ErrBlankFood.Error()).WithCause(ErrBlankFood)
	}
	class, err := ParseClass(string(class))
	if err != nil {
		return err
	}

	if _, ok := p.classes[key]; !ok {
		p.order = append(p.order, key)
	}
	p.classes[key] = class
	return nil
}

// RemoveFood drops food from every list and reports whether it was listed
func (p *Policy) RemoveFood(food string) bool {
	key := ledger.Normalize(food)
	if _, ok := p.classes[key]; !ok {
		return false
	}
	delete(p.classes, key)
	for i, name := range p.order {
		if name == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// Foods returns the foods listed under class in the order they were added
func (p *Policy) Foods(class Class) []string {
	out := []string{}
	for _, name := range p.order {
		if p.classes[name] == class {
			out = append(out, name)
		}
	}
	return out
}

func (p *Policy) Allowed() []string    { return p.Foods(ClassAllowed) }
func (p *Policy) Restricted() []string { return p.Foods(ClassRestricted) }
func (p *Policy) Banned() []string     { return p.Foods(ClassBanned) }

// Len returns the number of listed foods
func (p *Policy) Len() int {
	return len(p.order)
}

// Clone returns an independent copy
func (p *Policy) Clone() *Policy {
	c := &Policy{
		order:   append([]string{}, p.order...),
		classes: make(map[string]Class, len(p.classes)),
	}
	for k, v := range p.classes {
		c.classes[k] = v
	}
	return c
}
