package modeling

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gammafit/gammafit/quantity"
)

// Parameter is a named, dimensioned model quantity.
//
// A parameter's identity is its ID, not its name: two parameters may share a
// name without being the same object, and one parameter object may be
// referenced by several models. The ID is minted at construction and survives
// serialization, which is how shared parameters are re-linked on read.
type Parameter struct {
	id     string
	name   string
	value  quantity.Quantity
	frozen bool
}

// NewParameter creates a free parameter with a fresh identity.
func NewParameter(name string, q quantity.Quantity) *Parameter {
	return &Parameter{
		id:    uuid.NewString(),
		name:  name,
		value: q,
	}
}

// NewFrozenParameter creates a frozen parameter with a fresh identity.
func NewFrozenParameter(name string, q quantity.Quantity) *Parameter {
	p := NewParameter(name, q)
	p.frozen = true
	return p
}

// ID returns the parameter's stable identity.
func (p *Parameter) ID() string {
	return p.id
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Quantity returns the parameter's dimensioned value.
func (p *Parameter) Quantity() quantity.Quantity {
	return p.value
}

// Value returns the numeric value.
func (p *Parameter) Value() float64 {
	return p.value.Value
}

// Unit returns the unit string.
func (p *Parameter) Unit() string {
	return p.value.Unit
}

// SetValue updates the numeric value, keeping the unit.
func (p *Parameter) SetValue(v float64) {
	p.value.Value = v
}

// SetQuantity replaces value and unit.
func (p *Parameter) SetQuantity(q quantity.Quantity) {
	p.value = q
}

// Frozen reports whether the parameter is fixed during fitting.
func (p *Parameter) Frozen() bool {
	return p.frozen
}

// Freeze fixes the parameter.
func (p *Parameter) Freeze() {
	p.frozen = true
}

// Thaw frees the parameter.
func (p *Parameter) Thaw() {
	p.frozen = false
}

func (p *Parameter) String() string {
	state := "free"
	if p.frozen {
		state = "frozen"
	}
	return fmt.Sprintf("%s = %s (%s)", p.name, p.value, state)
}

// Parameters is an ordered, positional collection of parameters.
//
// Slot order is significant: shared-parameter linking replaces entries in
// place, so lookups return indices usable for positional overwrite.
type Parameters struct {
	params []*Parameter
}

// NewParameters creates a collection over the given parameters.
func NewParameters(params ...*Parameter) *Parameters {
	return &Parameters{params: params}
}

// Len returns the number of parameters.
func (ps *Parameters) Len() int {
	return len(ps.params)
}

// At returns the parameter at slot i.
func (ps *Parameters) At(i int) *Parameter {
	return ps.params[i]
}

// All returns the underlying slots in order. The slice is shared; callers
// must not reorder it.
func (ps *Parameters) All() []*Parameter {
	return ps.params
}

// Names returns the parameter names in slot order.
func (ps *Parameters) Names() []string {
	names := make([]string, len(ps.params))
	for i, p := range ps.params {
		names[i] = p.name
	}
	return names
}

// IndexOf returns the slot of the first parameter with the given name, or -1.
func (ps *Parameters) IndexOf(name string) int {
	for i, p := range ps.params {
		if p.name == name {
			return i
		}
	}
	return -1
}

// IndexOfID returns the slot of the parameter with the given identity, or -1.
func (ps *Parameters) IndexOfID(id string) int {
	for i, p := range ps.params {
		if p.id == id {
			return i
		}
	}
	return -1
}

// ByName returns the first parameter with the given name.
func (ps *Parameters) ByName(name string) (*Parameter, error) {
	if i := ps.IndexOf(name); i >= 0 {
		return ps.params[i], nil
	}
	return nil, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
}

// Replace overwrites slot i with another parameter object, preserving order.
func (ps *Parameters) Replace(i int, p *Parameter) {
	ps.params[i] = p
}

// Records converts the collection to serializable parameter records.
func (ps *Parameters) Records() []ParameterRecord {
	records := make([]ParameterRecord, len(ps.params))
	for i, p := range ps.params {
		records[i] = ParameterRecord{
			Name:   p.name,
			ID:     p.id,
			Value:  p.value.Value,
			Unit:   p.value.Unit,
			Frozen: p.frozen,
		}
	}
	return records
}

// ApplyRecords overrides matching parameters in place from explicit records.
//
// Used when a file-backed model has been read from its template file: the
// file may encode stale defaults, the record's parameter list is
// authoritative. Parameters adopt the record's identity so linking works on
// the reconstructed objects.
func (ps *Parameters) ApplyRecords(records []ParameterRecord) error {
	for _, rec := range records {
		p, err := ps.ByName(rec.Name)
		if err != nil {
			return err
		}
		p.value = quantity.New(rec.Value, rec.Unit)
		p.frozen = rec.Frozen
		if rec.ID != "" {
			p.id = rec.ID
		}
	}
	return nil
}

// FromRecords builds a fresh collection from serialized records.
//
// Records carrying an ID keep it; records without one get a fresh identity
// and never participate in shared-parameter linking.
func FromRecords(records []ParameterRecord) *Parameters {
	params := make([]*Parameter, len(records))
	for i, rec := range records {
		p := NewParameter(rec.Name, quantity.New(rec.Value, rec.Unit))
		p.frozen = rec.Frozen
		if rec.ID != "" {
			p.id = rec.ID
		}
		params[i] = p
	}
	return NewParameters(params...)
}
