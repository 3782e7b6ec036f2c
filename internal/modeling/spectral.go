package modeling

import (
	"fmt"

	"github.com/gammafit/gammafit/internal/registry"
	"github.com/gammafit/gammafit/quantity"
)

// Serialization type tags for spectral models.
const (
	TypePowerLawSpectralModel          = "PowerLawSpectralModel"
	TypeExpCutoffPowerLawSpectralModel = "ExpCutoffPowerLawSpectralModel"
	TypeTemplateSpectralModel          = "TemplateSpectralModel"
)

// spectralFactory builds a spectral model from its serialized form.
type spectralFactory struct {
	fromRecord func(rec *ModelRecord) (SpectralModel, error)
}

var spectralTypes = registry.New[spectralFactory]()

func init() {
	spectralTypes.Register(TypePowerLawSpectralModel, spectralFactory{
		fromRecord: powerLawFromRecord,
	})
	spectralTypes.Register(TypeExpCutoffPowerLawSpectralModel, spectralFactory{
		fromRecord: expCutoffPowerLawFromRecord,
	})
	spectralTypes.Register(TypeTemplateSpectralModel, spectralFactory{
		fromRecord: templateSpectralFromRecord,
	})
}

// PowerLawSpectralModel is the standard power-law spectrum
// phi(E) = amplitude * (E / reference)^(-index).
type PowerLawSpectralModel struct {
	params *Parameters
}

// NewPowerLawSpectralModel creates a power-law spectrum. Typical units:
// index dimensionless, amplitude "cm-2 s-1 TeV-1", reference "TeV".
func NewPowerLawSpectralModel(index, amplitude, reference quantity.Quantity) *PowerLawSpectralModel {
	return &PowerLawSpectralModel{
		params: NewParameters(
			NewParameter("index", index),
			NewParameter("amplitude", amplitude),
			NewFrozenParameter("reference", reference),
		),
	}
}

func powerLawFromRecord(rec *ModelRecord) (SpectralModel, error) {
	for _, name := range []string{"index", "amplitude", "reference"} {
		if _, err := recordQuantity(rec, name); err != nil {
			return nil, err
		}
	}
	return &PowerLawSpectralModel{params: FromRecords(rec.Parameters)}, nil
}

func (m *PowerLawSpectralModel) Name() string            { return m.Type() }
func (m *PowerLawSpectralModel) Type() string            { return TypePowerLawSpectralModel }
func (m *PowerLawSpectralModel) Parameters() *Parameters { return m.params }
func (m *PowerLawSpectralModel) spectralModel()          {}

// ExpCutoffPowerLawSpectralModel is a power law with an exponential cutoff:
// phi(E) = amplitude * (E / reference)^(-index) * exp(-E * lambda).
type ExpCutoffPowerLawSpectralModel struct {
	params *Parameters
}

// NewExpCutoffPowerLawSpectralModel creates a cutoff power-law spectrum.
// lambda carries the inverse-energy unit, typically "TeV-1".
func NewExpCutoffPowerLawSpectralModel(index, amplitude, reference, lambda quantity.Quantity) *ExpCutoffPowerLawSpectralModel {
	return &ExpCutoffPowerLawSpectralModel{
		params: NewParameters(
			NewParameter("index", index),
			NewParameter("amplitude", amplitude),
			NewFrozenParameter("reference", reference),
			NewParameter("lambda_", lambda),
		),
	}
}

func expCutoffPowerLawFromRecord(rec *ModelRecord) (SpectralModel, error) {
	for _, name := range []string{"index", "amplitude", "reference", "lambda_"} {
		if _, err := recordQuantity(rec, name); err != nil {
			return nil, err
		}
	}
	return &ExpCutoffPowerLawSpectralModel{params: FromRecords(rec.Parameters)}, nil
}

func (m *ExpCutoffPowerLawSpectralModel) Name() string            { return m.Type() }
func (m *ExpCutoffPowerLawSpectralModel) Type() string            { return TypeExpCutoffPowerLawSpectralModel }
func (m *ExpCutoffPowerLawSpectralModel) Parameters() *Parameters { return m.params }
func (m *ExpCutoffPowerLawSpectralModel) spectralModel()          {}

// TemplateSpectralModel is a table-backed spectrum defined by explicit
// energy/value arrays, scaled by a single norm parameter. The arrays are
// serialized inline with the record rather than in an external file.
type TemplateSpectralModel struct {
	energy     []float64
	energyUnit string
	values     []float64
	valuesUnit string
	params     *Parameters
}

// NewTemplateSpectralModel creates a table spectrum from matching energy and
// value arrays.
func NewTemplateSpectralModel(energy []float64, energyUnit string, values []float64, valuesUnit string) (*TemplateSpectralModel, error) {
	if len(energy) != len(values) {
		return nil, fmt.Errorf("%w: %d energies, %d values", ErrTemplateLengthMismatch, len(energy), len(values))
	}
	return &TemplateSpectralModel{
		energy:     append([]float64(nil), energy...),
		energyUnit: energyUnit,
		values:     append([]float64(nil), values...),
		valuesUnit: valuesUnit,
		params: NewParameters(
			NewParameter("norm", quantity.Dimensionless(1)),
		),
	}, nil
}

func templateSpectralFromRecord(rec *ModelRecord) (SpectralModel, error) {
	if rec.Energy == nil || rec.Values == nil {
		return nil, fmt.Errorf("%w: %s record lacks energy/values arrays", ErrMalformedComponent, rec.Type)
	}
	m, err := NewTemplateSpectralModel(rec.Energy.Data, rec.Energy.Unit, rec.Values.Data, rec.Values.Unit)
	if err != nil {
		return nil, err
	}
	if len(rec.Parameters) > 0 {
		if err := m.params.ApplyRecords(rec.Parameters); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Energy returns the energy grid and its unit.
func (m *TemplateSpectralModel) Energy() ([]float64, string) {
	return m.energy, m.energyUnit
}

// Values returns the value grid and its unit.
func (m *TemplateSpectralModel) Values() ([]float64, string) {
	return m.values, m.valuesUnit
}

func (m *TemplateSpectralModel) Name() string            { return m.Type() }
func (m *TemplateSpectralModel) Type() string            { return TypeTemplateSpectralModel }
func (m *TemplateSpectralModel) Parameters() *Parameters { return m.params }
func (m *TemplateSpectralModel) spectralModel()          {}
