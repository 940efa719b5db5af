package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/IvanShishkin/fdigest/internal/core"
)

const barWidth = 30

// newProgressPrinter renders scanner progress as a bar that redraws in place
func newProgressPrinter(out io.Writer) core.ProgressCallback {
	lastPhase := ""

	return func(phase string, current, total int, message string) {
		// Clear previous line if same phase
		if lastPhase == phase && (phase == core.PhaseHashing || phase == core.PhaseVerifying) {
			fmt.Fprint(out, "\033[1A\033[K")
		}
		lastPhase = phase

		switch phase {
		case core.PhaseEnumerating:
			if current == 0 && total == 0 {
				fmt.Fprintf(out, "\n  %sListing files...%s\n", colorReset, colorReset)
			} else {
				fmt.Fprintf(out, "  %sFiles:%s      %s\n", colorGray, colorReset, message)
			}
		case core.PhaseHashing, core.PhaseVerifying:
			if total > 0 {
				label := "Hashing:"
				if phase == core.PhaseVerifying {
					label = "Verifying:"
				}
				fmt.Fprintf(out, "  %s%-11s%s [%s%s%s] %s%.1f%%%s (%d/%d) %s%s%s\n",
					colorGray, label, colorReset, colorOrange, bar(current, total), colorReset,
					colorOrange, float64(current)/float64(total)*100, colorReset,
					current, total, colorGray, truncate(message, 40), colorReset)
			}
		case core.PhaseWriting:
			if current == 0 {
				fmt.Fprintf(out, "  %sWriting report...%s\n", colorGray, colorReset)
			}
		}
	}
}

// bar draws a fixed-width bar filled in proportion to current/total
func bar(current, total int) string {
	filled := barWidth * current / total
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// truncate shortens s to at most n characters, marking the cut
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
