package templates

import (
	"strconv"
	"strings"

	"github.com/delaneyj/recompose/compose"
)

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func hexID(id uint64) string {
	return strconv.FormatUint(id, 16)
}

// flagList renders the set flags of n as " +changed +empty", in a fixed order.
func flagList(n compose.Node) string {
	var sb strings.Builder
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"changed", n.Changed},
		{"parent_changed", n.ParentChanged},
		{"pending_child", n.PendingChild},
		{"empty", n.Empty},
		{"container", n.Container},
	} {
		if !f.on {
			continue
		}
		sb.WriteString(" +")
		sb.WriteString(f.name)
	}
	return sb.String()
}
