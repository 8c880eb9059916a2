package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInsert(t *testing.T) {
	query, args := buildInsert("creators", Record{
		"name":     "Ada",
		"id":       "1",
		"imageURL": "",
	})
	assert.Equal(t, `INSERT INTO "creators" ("id", "imageURL", "name") VALUES ($1, $2, $3) RETURNING *`, query)
	assert.Equal(t, []interface{}{"1", "", "Ada"}, args)
}

func TestBuildSelect(t *testing.T) {
	query, args := buildSelect("creators", nil)
	assert.Equal(t, `SELECT * FROM "creators"`, query)
	assert.Empty(t, args)

	query, args = buildSelect("creators", []Filter{Eq("url", "https://ada.dev"), Neq("id", "1")})
	assert.Equal(t, `SELECT * FROM "creators" WHERE "url" = $1 AND "id" <> $2`, query)
	assert.Equal(t, []interface{}{"https://ada.dev", "1"}, args)
}

func TestBuildUpdateContinuesPlaceholders(t *testing.T) {
	query, args := buildUpdate("creators", Record{"url": "https://ada.dev", "name": "Ada"}, []Filter{Eq("id", "1")})
	assert.Equal(t, `UPDATE "creators" SET "name" = $1, "url" = $2 WHERE "id" = $3`, query)
	assert.Equal(t, []interface{}{"Ada", "https://ada.dev", "1"}, args)
}

func TestBuildDelete(t *testing.T) {
	query, args := buildDelete("creators", []Filter{Eq("id", "1")})
	assert.Equal(t, `DELETE FROM "creators" WHERE "id" = $1`, query)
	assert.Equal(t, []interface{}{"1"}, args)
}

func TestQuoteKeepsMixedCase(t *testing.T) {
	assert.Equal(t, `"imageURL"`, quote("imageURL"))
}

func TestNewPostgresStoreInvalidDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "postgres://user@localhost:notaport/db", 2)
	require.Error(t, err)
}
