package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanOrderings(t *testing.T) {
	ords := []DBOrdering{
		{Field: "total", Ascending: false},
		{Field: "password_hash", Ascending: true},
		{Field: "created_at", Ascending: true},
	}
	got := CleanOrderings(ords, "total", "created_at")
	assert.Equal(t, []DBOrdering{ords[0], ords[2]}, got)
	assert.Equal(t, "total DESC", got[0].String())
	assert.Equal(t, "created_at ASC", got[1].String())
	assert.Empty(t, CleanOrderings(ords))
}
