// Package settable exposes named runtime parameters through an explicit
// key to getter/setter table, populated at construction. There is no
// open-ended attribute registry; everything settable is declared.
package settable

import (
	"fmt"
	"sort"
	"strconv"
)

// Settable is one tunable parameter.
type Settable struct {
	Name        string
	Description string
	Get         func() string
	Set         func(value string) error
}

// Table holds a shell instance's settables in declaration order.
type Table struct {
	byName map[string]*Settable
	order  []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Settable)}
}

// Register adds one settable. Duplicate names are an error.
func (t *Table) Register(s *Settable) error {
	if s.Name == "" || s.Get == nil || s.Set == nil {
		return fmt.Errorf("settable needs a name, getter, and setter")
	}
	if _, exists := t.byName[s.Name]; exists {
		return fmt.Errorf("settable %q already registered", s.Name)
	}
	t.byName[s.Name] = s
	t.order = append(t.order, s.Name)
	return nil
}

// Set assigns value to the named parameter.
func (t *Table) Set(name, value string) error {
	s, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("unknown setting %q", name)
	}
	return s.Set(value)
}

// Get returns the current value of the named parameter.
func (t *Table) Get(name string) (string, error) {
	s, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", name)
	}
	return s.Get(), nil
}

// Names returns all settable names, sorted.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	sort.Strings(names)
	return names
}

// Describe returns the description of the named parameter.
func (t *Table) Describe(name string) (string, error) {
	s, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown setting %q", name)
	}
	return s.Description, nil
}

// String binds a string variable as a settable.
func String(name, description string, v *string) *Settable {
	return &Settable{
		Name:        name,
		Description: description,
		Get:         func() string { return *v },
		Set: func(value string) error {
			*v = value
			return nil
		},
	}
}

// Bool binds a boolean variable as a settable accepting true/false.
func Bool(name, description string, v *bool) *Settable {
	return &Settable{
		Name:        name,
		Description: description,
		Get:         func() string { return strconv.FormatBool(*v) },
		Set: func(value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("%s expects true or false, got %q", name, value)
			}
			*v = b
			return nil
		},
	}
}

// Int binds an integer variable as a settable.
func Int(name, description string, v *int) *Settable {
	return &Settable{
		Name:        name,
		Description: description,
		Get:         func() string { return strconv.Itoa(*v) },
		Set: func(value string) error {
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s expects an integer, got %q", name, value)
			}
			*v = n
			return nil
		},
	}
}
