package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

func TestParseMovementKind_NormalizaYValida(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"IN", entity.MovementIn, true},
		{"in", entity.MovementIn, true},
		{"  out  ", entity.MovementOut, true},
		{"Adjust", entity.MovementAdjust, true},
		{"TRANSFER", entity.MovementTransfer, true},
		{"return", entity.MovementReturn, true},
		{"shrinkage", entity.MovementShrinkage, true},
		{"VENTA", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := entity.ParseMovementKind(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovementAddsSubtracts(t *testing.T) {
	assert.True(t, entity.MovementAdds(entity.MovementIn))
	assert.True(t, entity.MovementAdds(entity.MovementReturn))
	assert.False(t, entity.MovementAdds(entity.MovementOut))

	assert.True(t, entity.MovementSubtracts(entity.MovementOut))
	assert.True(t, entity.MovementSubtracts(entity.MovementShrinkage))
	assert.False(t, entity.MovementSubtracts(entity.MovementAdjust),
		"ADJUST no suma ni resta: fija un valor absoluto")
	assert.False(t, entity.MovementSubtracts(entity.MovementTransfer))
}
