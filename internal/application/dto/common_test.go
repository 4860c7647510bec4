package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-x3/internal/application/dto"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	cases := []struct {
		in, want dto.PageRequest
	}{
		{dto.PageRequest{}, dto.PageRequest{Limit: dto.DefaultLimit}},
		{dto.PageRequest{Limit: 500, Offset: -3}, dto.PageRequest{Limit: dto.MaxLimit}},
		{dto.PageRequest{Limit: 5, Offset: 10}, dto.PageRequest{Limit: 5, Offset: 10}},
	}
	for _, tc := range cases {
		got := tc.in
		got.DefaultPage()
		assert.Equal(t, tc.want, got)
	}
}
