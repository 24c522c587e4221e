package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	lanmac "github.com/renginhelin/NetworkProtocols2024"
)

// printResults writes one table per protocol: a row per device count, a column per G value
func printResults(out io.Writer, rt *lanmac.ResultsTable) {
	title := color.New(color.FgGreen, color.Bold).SprintFunc()

	for _, name := range rt.Protocols {
		seriesList := rt.Results[name]
		if len(seriesList) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s (%d slots, %d replications)\n", title(name), rt.SlotCount, rt.Replications)

		header := []string{"devices"}
		for _, g := range seriesList[0].G {
			header = append(header, "G="+strconv.FormatFloat(g, 'g', -1, 64))
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader(header)
		table.SetAlignment(tablewriter.ALIGN_RIGHT)
		for _, series := range seriesList {
			row := []string{strconv.Itoa(series.Devices)}
			for _, s := range series.S {
				row = append(row, fmt.Sprintf("%.4f", s))
			}
			table.Append(row)
		}
		table.Render()
	}
}
