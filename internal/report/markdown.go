package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/IvanShishkin/fdigest/pkg/models"
)

var markdownEscaper = strings.NewReplacer("|", "\\|", "\r\n", " ", "\n", " ", "\r", " ")

// encodeMarkdown renders the report as a Markdown document
func encodeMarkdown(w io.Writer, report *models.Report) error {
	var sb strings.Builder

	// Header
	sb.WriteString("# fdigest Report\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Run ID | `%s` |\n", report.RunID))
	sb.WriteString(fmt.Sprintf("| Root | `%s` |\n", markdownEscaper.Replace(report.Root)))
	sb.WriteString(fmt.Sprintf("| Generated | %s |\n", models.FormatTime(report.GeneratedAt)))
	sb.WriteString(fmt.Sprintf("| Files | %d |\n", len(report.Records)))
	sb.WriteString("\n")

	if len(report.Records) == 0 {
		sb.WriteString("> No files found\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	// Records
	sb.WriteString("## Files\n\n")
	sb.WriteString("| " + strings.Join(models.RecordFields, " | ") + " |\n")
	sb.WriteString(strings.Repeat("|---", len(models.RecordFields)) + "|\n")
	for i := range report.Records {
		row := recordRow(&report.Records[i])
		for j := range row {
			row[j] = markdownEscaper.Replace(row[j])
		}
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
