package report

import (
	"fmt"
	"io"
	"time"

	"github.com/IvanShishkin/fdigest/internal/compare"
	"github.com/IvanShishkin/fdigest/pkg/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

const separator = "───────────────────────────────────────────────────────────────"

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// FormatBytes formats a byte count with a binary unit
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// WriteSummary prints the outcome of a digest run
func WriteSummary(w io.Writer, results *models.RunResults) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sDIGEST COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %sPath:%s      %s\n", colorGray, colorReset, results.Root)
	fmt.Fprintf(w, "  %sFiles:%s     %d\n", colorGray, colorReset, results.DigestedFiles)
	fmt.Fprintf(w, "  %sSkipped:%s   %d\n", colorGray, colorReset, results.SkippedFiles)
	fmt.Fprintf(w, "  %sSize:%s      %s\n", colorGray, colorReset, FormatBytes(results.TotalBytes))
	fmt.Fprintf(w, "  %sDuration:%s  %s\n", colorGray, colorReset, FormatDuration(results.Duration))
	if results.ReportPath != "" {
		fmt.Fprintf(w, "  %sReport:%s    %s\n", colorGray, colorReset, results.ReportPath)
	}
	fmt.Fprintln(w)

	if len(results.Warnings) == 0 {
		return
	}

	fmt.Fprintf(w, "  %s%s⚠ NOT INCLUDED: %d%s\n", colorBold, colorYellow, len(results.Warnings), colorReset)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s%s\n", colorGray, separator, colorReset)
	for _, warning := range results.Warnings {
		fmt.Fprintf(w, "  %s%-14s%s %s\n", colorYellow, warning.Kind, colorReset, warning.Path)
		fmt.Fprintf(w, "  %s%s%s\n", colorGray, warning.Message, colorReset)
	}
	fmt.Fprintf(w, "%s%s%s\n", colorGray, separator, colorReset)
	fmt.Fprintln(w)
}

// WriteDiff prints the differences between two reports
func WriteDiff(w io.Writer, result *compare.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sCOMPARE COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %sAdded:%s      %d\n", colorGray, colorReset, len(result.Added))
	fmt.Fprintf(w, "  %sRemoved:%s    %d\n", colorGray, colorReset, len(result.Removed))
	fmt.Fprintf(w, "  %sModified:%s   %d\n", colorGray, colorReset, len(result.Modified))
	fmt.Fprintf(w, "  %sUnchanged:%s  %d\n", colorGray, colorReset, result.Unchanged)
	fmt.Fprintln(w)

	if !result.HasDifferences() {
		fmt.Fprintf(w, "  %s%s✓ Reports match%s\n", colorBold, colorGreen, colorReset)
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "%s%s%s\n", colorGray, separator, colorReset)
	for _, r := range result.Added {
		fmt.Fprintf(w, "  %s+ %s%s\n", colorGreen, r.Path, colorReset)
	}
	for _, r := range result.Removed {
		fmt.Fprintf(w, "  %s- %s%s\n", colorRed, r.Path, colorReset)
	}
	for _, c := range result.Modified {
		fmt.Fprintf(w, "  %s~ %s%s", colorYellow, c.New.Path, colorReset)
		if c.Old.Size != c.New.Size {
			fmt.Fprintf(w, " %s(%d → %d bytes)%s", colorGray, c.Old.Size, c.New.Size, colorReset)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s%s%s\n", colorGray, separator, colorReset)
	fmt.Fprintln(w)
}

// WriteVerify prints the outcome of re-hashing a report's files
func WriteVerify(w io.Writer, results *models.VerifyResults) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%sVERIFY COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %sOK:%s         %s%d%s\n", colorGray, colorReset, colorGreen, results.OK, colorReset)
	fmt.Fprintf(w, "  %sMismatch:%s   %s%d%s\n", colorGray, colorReset, colorRed, results.Mismatched, colorReset)
	fmt.Fprintf(w, "  %sMissing:%s    %s%d%s\n", colorGray, colorReset, colorYellow, results.Missing, colorReset)
	fmt.Fprintln(w)

	if results.Clean() {
		fmt.Fprintf(w, "  %s%s✓ All files match%s\n", colorBold, colorGreen, colorReset)
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "%s%s%s\n", colorGray, separator, colorReset)
	for _, e := range results.Entries {
		switch e.Status {
		case models.VerifyMismatch:
			fmt.Fprintf(w, "  %sMISMATCH%s  %s\n", colorRed, colorReset, e.Expected.Path)
		case models.VerifyMissing:
			fmt.Fprintf(w, "  %sMISSING%s   %s\n", colorYellow, colorReset, e.Expected.Path)
			if e.Err != nil {
				fmt.Fprintf(w, "            %s%v%s\n", colorGray, e.Err, colorReset)
			}
		}
	}
	fmt.Fprintf(w, "%s%s%s\n", colorGray, separator, colorReset)
	fmt.Fprintln(w)
}
