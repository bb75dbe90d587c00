package kernel_test

import (
	"testing"

	"github.com/Abraxas-365/aiwriter/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, kernel.PaginationOptions{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, kernel.PaginationOptions{Page: 2, Limit: 10}.Offset())
	assert.False(t, kernel.PaginationOptions{Page: 0, Limit: 10}.Valid())
	assert.False(t, kernel.PaginationOptions{Page: 1, Limit: 101}.Valid())
}

func TestNewPaginated(t *testing.T) {
	p := kernel.NewPaginated([]string{"a", "b"}, kernel.PaginationOptions{Page: 1, Limit: 2}, 5)
	assert.Equal(t, 3, p.Page.Pages)
	assert.True(t, p.HasNext())

	empty := kernel.NewPaginated[string](nil, kernel.PaginationOptions{Page: 1, Limit: 2}, 0)
	assert.NotNil(t, empty.Items)
	assert.False(t, empty.HasNext())
}
