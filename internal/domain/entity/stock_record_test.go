package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/davidtimana/supply-AI/internal/domain/entity"
)

func TestNewStockRecord_NaceEnCero(t *testing.T) {
	stock := entity.NewStockRecord("org-1", "prod-1", "branch-1", time.Now())

	assert.True(t, stock.QuantityOnHand.IsZero())
	assert.Equal(t, int64(0), stock.Version)
	assert.True(t, stock.Active)
	assert.False(t, stock.IsDeleted())
}

func TestStockRecord_Status_ClasificaPorUmbrales(t *testing.T) {
	stock := &entity.StockRecord{
		MinLevel:     decimal.NewFromInt(5),
		ReorderPoint: decimal.NewFromInt(20),
	}

	stock.QuantityOnHand = decimal.NewFromInt(3)
	assert.Equal(t, entity.StockStatusCritical, stock.Status())

	stock.QuantityOnHand = decimal.NewFromInt(5)
	assert.Equal(t, entity.StockStatusCritical, stock.Status(),
		"en el mínimo exacto sigue siendo crítico")

	stock.QuantityOnHand = decimal.NewFromInt(15)
	assert.Equal(t, entity.StockStatusLow, stock.Status())

	stock.QuantityOnHand = decimal.NewFromInt(100)
	assert.Equal(t, entity.StockStatusNormal, stock.Status())
}

func TestStockRecord_IsOverstocked_SinMaximoNoAplica(t *testing.T) {
	stock := &entity.StockRecord{QuantityOnHand: decimal.NewFromInt(1000)}
	assert.False(t, stock.IsOverstocked(), "MaxLevel en cero desactiva la alerta")

	stock.MaxLevel = decimal.NewFromInt(500)
	assert.True(t, stock.IsOverstocked())
}

func TestStockRecord_Available_DescuentaStockDeSeguridad(t *testing.T) {
	stock := &entity.StockRecord{
		QuantityOnHand: decimal.NewFromInt(80),
		SafetyStock:    decimal.NewFromInt(10),
	}
	assert.True(t, decimal.NewFromInt(70).Equal(stock.Available()))
}

func TestStockRecord_SoftDelete(t *testing.T) {
	stock := entity.NewStockRecord("org-1", "prod-1", "branch-1", time.Now())

	stock.SoftDelete(time.Now())

	assert.False(t, stock.Active)
	assert.True(t, stock.IsDeleted())
}
