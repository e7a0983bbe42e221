package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioComposeCounts(t *testing.T) {
	for _, s := range []scenario{
		{name: "static", width: 4, height: 2, passes: 50, changeEvery: 1_000},
		{name: "every pass", width: 4, height: 2, passes: 50, changeEvery: 1},
		{name: "sparse", width: 7, height: 3, passes: 40, changeEvery: 6},
	} {
		t.Run(s.name, func(t *testing.T) {
			r, err := runScenario(context.Background(), s)
			require.NoError(t, err)
			assert.Equal(t, s.expectedComposes(), r.leaves)
			// root, group, and per column a memo, height wraps and a leaf
			assert.Equal(t, 2+s.width*(s.height+2), r.scopes)
		})
	}
}
