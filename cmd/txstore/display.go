package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/poiesic/txstore/core"
	"github.com/poiesic/txstore/storage"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printRecords prints up to n records of src as a table.
func printRecords(w io.Writer, src storage.Reader, n int) {
	if n <= 0 || src.Len() == 0 {
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTYPE\tAMOUNT\tLOCATION\tCHANNEL\tFRAUD")
	for r := range storage.Head(src, n) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.TransactionID, r.TransactionType, core.FormatAmount(r.Amount),
			r.Location, r.PaymentChannel, r.IsFraud)
	}
	tw.Flush()
	if rest := src.Len() - n; rest > 0 {
		fmt.Fprintf(w, "... and %s more\n", humanize.Comma(int64(rest)))
	}
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func elapsed(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
