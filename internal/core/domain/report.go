package domain

import (
	"fmt"
	"strings"
)

// RenderReport produces the deterministic human-readable summary of a run:
// one line per project, in input-config order, name column padded to the
// longest name. Two runs over the same outcome set render byte-identical
// reports.
func RenderReport(outcomes []ProjectOutcome) string {
	width := 0
	for _, po := range outcomes {
		if n := len(po.Build.Name()); n > width {
			width = n
		}
	}

	var b strings.Builder
	for _, po := range outcomes {
		fmt.Fprintf(&b, "%-*s : %s\n", width, po.Build.Name(), po.Outcome.Summary())
	}
	return b.String()
}
