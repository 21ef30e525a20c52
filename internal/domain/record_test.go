package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitRecord_ToReference(t *testing.T) {
	t.Run("kilometer round trip", func(t *testing.T) {
		km := UnitRecord{
			Unit: "kilometer", Property: "length",
			ConversionFactor: 1000.0, ReferenceUnit: "meter",
		}
		assert.Equal(t, 2500.0, km.ToReference(2.5))
		assert.InDelta(t, 2.5, km.FromReference(km.ToReference(2.5)), 1e-12)
	})

	t.Run("pound to kilogram", func(t *testing.T) {
		lb := UnitRecord{
			Unit: "pound", Property: "mass",
			ConversionFactor: 0.4535924, ReferenceUnit: "kilogram",
		}
		assert.InDelta(t, 4.535924, lb.ToReference(10), 1e-9)
	})

	t.Run("Celsius affine conversion", func(t *testing.T) {
		offset := 273.15
		celsius := UnitRecord{
			Unit: "degree Celsius", Property: "temperature",
			ConversionFactor: 1.0, ConversionOffset: &offset,
			ReferenceUnit: "kelvin",
		}
		require.True(t, celsius.Affine())
		assert.Equal(t, 273.15, celsius.ToReference(0))
		assert.InDelta(t, 373.15, celsius.ToReference(100), 1e-9)
		assert.InDelta(t, 100.0, celsius.FromReference(373.15), 1e-9)
	})

	t.Run("Fahrenheit affine conversion", func(t *testing.T) {
		offset := 255.3722222222222
		fahrenheit := UnitRecord{
			Unit: "degree Fahrenheit", Property: "temperature",
			ConversionFactor: 5.0 / 9.0, ConversionOffset: &offset,
			ReferenceUnit: "kelvin",
		}
		assert.InDelta(t, 273.15, fahrenheit.ToReference(32), 1e-9)
		assert.InDelta(t, 212.0, fahrenheit.FromReference(373.15), 1e-9)
	})
}

func TestUnitRecord_Key(t *testing.T) {
	rec := UnitRecord{Unit: "meter", Property: "length"}
	assert.Equal(t, Key{Unit: "meter", Property: "length"}, rec.Key())
}

func TestDimension_Equal(t *testing.T) {
	assert.True(t, Dimension{"L": 1, "T": -2}.Equal(Dimension{"T": -2, "L": 1}))
	assert.False(t, Dimension{"L": 1}.Equal(Dimension{"L": 2}))
	assert.False(t, Dimension{"L": 1}.Equal(Dimension{"L": 1, "T": -1}))
	assert.True(t, Dimension{}.Equal(Dimension{}))
}

func TestMeasurementSystems_HasElevenValues(t *testing.T) {
	assert.Len(t, MeasurementSystems, 11)
	assert.True(t, MeasurementSystems["SI"])
	assert.True(t, MeasurementSystems["Atomic/Natural"])
	assert.True(t, MeasurementSystems["Ancient Roman"])
	assert.False(t, MeasurementSystems["Martian"])
}

func TestUnitRecord_NotAffineWithoutOffset(t *testing.T) {
	rec := UnitRecord{ConversionFactor: 1000}
	assert.False(t, rec.Affine())
	assert.False(t, math.IsNaN(rec.ToReference(1)))
}
