package main

import (
	"fmt"
	"io"
	"strconv"

	"artistsync/internal/importer"
	"artistsync/internal/resolver"
)

func resolveSummaryLines(summary resolver.Summary, colorize bool) []string {
	lines := renderSectionHeader("Resolve", colorize)
	lines = append(lines,
		renderStatusLine("Artists", statusInfo,
			fmt.Sprintf("%d listed, %d already processed", summary.Total, summary.Skipped), colorize),
		renderStatusLine("Resolved", countKind(summary.Resolved, statusOK), strconv.Itoa(summary.Resolved), colorize),
		renderStatusLine("Not found", countKind(summary.NotFound, statusWarn), strconv.Itoa(summary.NotFound), colorize),
	)
	switch {
	case summary.Pending == 0:
		lines = append(lines, renderStatusLine("Status", statusOK, "nothing to do", colorize))
	case summary.Completed:
		lines = append(lines, renderStatusLine("Status", statusOK, "complete", colorize))
	default:
		remaining := summary.Pending - summary.Processed()
		lines = append(lines, renderStatusLine("Status", statusError,
			fmt.Sprintf("halted with %d artists remaining", remaining), colorize))
	}
	return lines
}

func importSummaryLines(summary importer.Summary, dryRun, colorize bool) []string {
	title := "Import"
	if dryRun {
		title = "Import (dry run)"
	}
	lines := renderSectionHeader(title, colorize)
	if dryRun {
		lines = append(lines, renderStatusLine("Would add", countKind(summary.Planned, statusOK), strconv.Itoa(summary.Planned), colorize))
	} else {
		lines = append(lines,
			renderStatusLine("Added", countKind(summary.Added, statusOK), strconv.Itoa(summary.Added), colorize),
			renderStatusLine("Failed", countKind(summary.Failed, statusError), strconv.Itoa(summary.Failed), colorize),
		)
	}
	lines = append(lines,
		renderStatusLine("In Lidarr", statusInfo, strconv.Itoa(summary.Existing), colorize),
		renderStatusLine("Not found", countKind(summary.NotFound, statusWarn), strconv.Itoa(summary.NotFound), colorize),
	)
	if summary.Malformed > 0 {
		lines = append(lines, renderStatusLine("Unrecognized", statusInfo,
			fmt.Sprintf("%d lines without a lookup result", summary.Malformed), colorize))
	}
	return lines
}

func renderOutcomes(outcomes []importer.Outcome) string {
	if len(outcomes) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		mbid := o.MBID
		if mbid == "" {
			mbid = "-"
		}
		rows = append(rows, []string{strconv.Itoa(o.Line), o.Name, mbid, string(o.Action), o.Detail})
	}
	return renderTable(
		[]string{"Line", "Artist", "MBID", "Result", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func printImportResult(w io.Writer, summary importer.Summary, dryRun bool) {
	colorize := shouldColorize(w)
	if table := renderOutcomes(summary.Outcomes); table != "" {
		fmt.Fprintln(w, table)
	}
	writeLines(w, importSummaryLines(summary, dryRun, colorize))
}
