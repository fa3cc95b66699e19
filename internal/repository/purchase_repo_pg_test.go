package repository

import (
	"testing"

	"github.com/Domenick1991/foodday/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewPurchaseRepository(pool)
	assert.NotNil(t, repo)
}

func TestEncodeItems(t *testing.T) {
	out, err := encodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	out, err = encodeItems([]domain.LineItem{{Name: "Entrada General", Quantity: 2, Price: 12000}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"item_name":"Entrada General","quantity":2,"price":12000}]`, out)
}
