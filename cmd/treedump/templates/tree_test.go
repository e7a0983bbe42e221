package templates

import (
	"strings"
	"testing"

	"github.com/delaneyj/recompose/compose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	root := compose.Node{
		ID:        0xab,
		Type:      "main.app",
		Hooks:     2,
		Container: true,
		Children: []compose.Node{
			{ID: 0x1, Position: 0, Type: "main.label", Hooks: 3, Generation: 4, Empty: true},
		},
	}

	out := Tree(root, 3)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# 2 scopes after 3 passes", lines[0])
	assert.Equal(t, "main.app [ab] pos=0 hooks=2 gen=0 +container", lines[1])
	assert.Equal(t, "  main.label [1] pos=0 hooks=3 gen=4 +empty", lines[2])
}

func TestFlagList(t *testing.T) {
	assert.Empty(t, flagList(compose.Node{}))
	assert.Equal(t, " +changed +pending_child", flagList(compose.Node{Changed: true, PendingChild: true}))
}
