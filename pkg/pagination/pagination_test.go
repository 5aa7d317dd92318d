package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewComputesLastPage(t *testing.T) {
	p := New([]int{1, 2}, 1, 10, 25)
	assert.Equal(t, 3, p.LastPage)
	assert.Equal(t, 1, p.CurrentPage)
	assert.EqualValues(t, 25, p.Total)

	// Exact multiple
	assert.Equal(t, 2, New(nil, 1, 10, 20).LastPage)
	// Empty result still reports one page
	assert.Equal(t, 1, New(nil, 1, 10, 0).LastPage)
}

func TestNormalize(t *testing.T) {
	page, perPage := Normalize(0, -5, 20)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, perPage)

	page, perPage = Normalize(3, 15, 20)
	assert.Equal(t, 3, page)
	assert.Equal(t, 15, perPage)
}
