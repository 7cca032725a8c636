package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 0", BRL(0))
	assert.Equal(t, "R$ 950", BRL(950))
	assert.Equal(t, "R$ 1.234", BRL(1234))
	assert.Equal(t, "R$ 1.234.567", BRL(1234567))
	assert.Equal(t, "R$ -500", BRL(-500), "sign goes after the currency symbol")
}

func TestBRLDecimal(t *testing.T) {
	assert.Equal(t, "R$ 0,00", BRLDecimal(0))
	assert.Equal(t, "R$ 1.234,56", BRLDecimal(1234.56))
	assert.Equal(t, "R$ 5.200,00", BRLDecimal(5200))
	assert.Equal(t, "R$ 0,50", BRLDecimal(0.5))
	assert.Equal(t, "R$ -1.234,56", BRLDecimal(-1234.56), "same sign placement as BRL")
}

func TestArea(t *testing.T) {
	assert.Equal(t, "0 m²", Area(0))
	assert.Equal(t, "85 m²", Area(85))
	assert.Equal(t, "1.234 m²", Area(1234))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "R$ 1.3M", Compact(1340000))
	assert.Equal(t, "R$ 450k", Compact(450000))
	assert.Equal(t, "R$ 950", Compact(950))
}
