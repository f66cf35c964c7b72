// Package diag adapts the corpus's hierarchical memory-report tooling
// into a per-node tree report for ACPH: where the flat Efficiency view
// gives one slot-occupancy number for the whole tree, TreeReport breaks
// that down node by node.
package diag

import (
	"encoding/json"
	"fmt"
	"strings"
	"unsafe"

	"github.com/dustin/go-humanize"

	"acph/paramselect"
	"acph/tree"
)

// TreeReport is a hierarchical report over one node's slot table: how
// many slots it has, how many are occupied, and an estimate of the bytes
// it and its leaf key copies occupy. It mirrors the corpus's MemReport
// tree (Name/TotalBytes/Children) but adds the slot-occupancy fields this
// domain actually needs.
type TreeReport struct {
	Name       string       `json:"name"`
	SlotCount  int          `json:"slot_count"`
	SlotsUsed  int          `json:"slots_used"`
	IndexWidth int          `json:"index_width_bits"`
	// WidthOptions lists every supported index width that could also
	// address this node's slot table, narrowest first; IndexWidth is
	// always WidthOptions[0].
	WidthOptions []int        `json:"index_width_options"`
	TotalBytes   int          `json:"total_bytes"`
	Children     []TreeReport `json:"children,omitempty"`
}

// Build walks the tree rooted at node and produces its hierarchical
// report. It is a diagnostics-only operation: it never mutates the tree.
func Build[P any](node *tree.Node[P]) TreeReport {
	return build(node, "root")
}

func build[P any](node *tree.Node[P], name string) TreeReport {
	if node == nil {
		return TreeReport{Name: name}
	}

	indexWidth := paramselect.WidthForCountWithSentinel(len(node.Slots))
	r := TreeReport{
		Name:         name,
		SlotCount:    len(node.Slots),
		IndexWidth:   indexWidth,
		WidthOptions: paramselect.WidthCandidates(indexWidth),
		TotalBytes:   int(unsafe.Sizeof(*node)) + len(node.Slots)*int(unsafe.Sizeof(tree.Slot[P]{})),
	}

	for i := range node.Slots {
		s := &node.Slots[i]
		switch {
		case s.IsLeaf():
			r.SlotsUsed++
			r.TotalBytes += s.KeyLen()
		case s.IsBranch():
			r.SlotsUsed++
			child := build(s.Child(), fmt.Sprintf("slot[%d]", i))
			r.Children = append(r.Children, child)
			r.TotalBytes += child.TotalBytes
		}
	}

	return r
}

// Print returns the report as an indented tree string, starting at the
// given indent level, human-readable byte counts included, matching the
// corpus's MemReport.Print convention.
func (r TreeReport) Print(indent int) string {
	var sb strings.Builder
	r.buildString(&sb, indent)
	return sb.String()
}

func (r TreeReport) buildString(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Fprintf(sb, "%s- %s: %d/%d slots used, %s\n",
		prefix, r.Name, r.SlotsUsed, r.SlotCount, humanize.Bytes(uint64(r.TotalBytes)))
	for _, child := range r.Children {
		child.buildString(sb, indent+1)
	}
}

// String renders the report as an indented tree.
func (r TreeReport) String() string {
	return r.Print(0)
}

// JSON returns a JSON representation of the report.
func (r TreeReport) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(b)
}
