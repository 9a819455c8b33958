package testutil

import (
	"testing"
)

func TestGolden(t *testing.T) {
	g := Golden(t)
	g.Assert(t, "sequential_ids", []byte("v-1\nv-2\n"))
}
