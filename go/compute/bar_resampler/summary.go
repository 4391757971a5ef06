package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/bars"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/pipeline"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/ticks"
)

func writeSummary(w io.Writer, res pipeline.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stage", "Item", "Value"})
	table.SetAutoFormatHeaders(false)

	add := func(stage, item string, n int) {
		table.Append([]string{stage, item, strconv.Itoa(n)})
	}
	add("load", "files processed", res.Load.FilesProcessed)
	add("load", "files failed", res.Load.FilesFailed)
	add("load", "files skipped", res.Load.FilesSkipped)
	add("load", "ticks loaded", res.Load.RowsLoaded)
	for _, r := range []ticks.RejectReason{ticks.ReasonColumnCount, ticks.ReasonTimestamp, ticks.ReasonNumeric} {
		add("load", "rejected "+string(r), res.Load.RowsRejected[r])
	}
	add("clean", "retained", res.Clean.Retained)
	for _, r := range ticks.Rules {
		add("clean", "rejected "+string(r), res.Clean.Rejected[r])
	}
	add("aggregate", "bars", len(res.Bars))
	if n := len(res.Bars); n > 0 {
		table.Append([]string{"aggregate", "first bar", bars.FormatTimestamp(res.Bars[0].Start)})
		table.Append([]string{"aggregate", "last bar", bars.FormatTimestamp(res.Bars[n-1].Start)})
	}
	table.Append([]string{"write", "output", res.Output})
	table.Render()
}
