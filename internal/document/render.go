package document

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// RenderText writes a plain-text layout of inv.
func RenderText(w io.Writer, inv *Invoice) error {
	bw := bufio.NewWriter(w)
	tw := tabwriter.NewWriter(bw, 0, 4, 2, ' ', 0)

	rule := strings.Repeat("-", 64)

	fmt.Fprintln(tw, inv.Title)
	fmt.Fprintln(tw, inv.Subtitle)
	if inv.HeaderMessage != "" {
		fmt.Fprintln(tw, inv.HeaderMessage)
	}
	fmt.Fprintf(tw, "REF:\t%s\n", inv.Reference)
	fmt.Fprintf(tw, "DATE:\t%s\n", inv.IssuedAt.Format("2006-01-02"))
	if inv.TrackingID != "" {
		fmt.Fprintf(tw, "TRACKING:\t%s\n", inv.TrackingID)
	}
	fmt.Fprintln(tw, rule)

	fmt.Fprintln(tw, "FROM (CARRIER)\tTO (CLIENT)")
	fmt.Fprintf(tw, "%s\t%s\n", inv.Carrier.Name, inv.Client.Name)
	fmt.Fprintf(tw, "%s\t%s\n", inv.Carrier.Location, inv.Client.Email)
	fmt.Fprintf(tw, "P: %s\t%s\n", inv.Carrier.Phone, inv.Client.Phone)
	fmt.Fprintf(tw, "E: %s\t\n", inv.Carrier.Email)
	fmt.Fprintln(tw, rule)

	fmt.Fprintln(tw, "SHIPMENT DETAILS")
	for _, d := range inv.Details {
		fmt.Fprintf(tw, "%s:\t%s\n", d.Label, d.Value)
	}
	fmt.Fprintln(tw, rule)

	fmt.Fprintf(tw, "BASE SERVICE PRICE:\t%s %s\n", inv.Breakdown.Base, inv.Currency)
	fmt.Fprintf(tw, "LOGISTICS SERVICE FEE (%g%%):\t%s %s\n", inv.Breakdown.Percent, inv.Breakdown.Fee, inv.Currency)
	fmt.Fprintf(tw, "%s\t%s %s\n", inv.TotalLabel, inv.Breakdown.Total, inv.Currency)
	if inv.PaymentMethod != "" {
		fmt.Fprintf(tw, "PAYMENT METHOD:\t%s\n", inv.PaymentMethod)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if inv.Notes != "" {
		fmt.Fprintf(bw, "\nNOTES:\n%s\n", inv.Notes)
	}
	fmt.Fprintf(bw, "\nTERMS & CONDITIONS:\n%s\n", inv.Terms)
	if inv.Footer != "" {
		fmt.Fprintf(bw, "\n%s\n", inv.Footer)
	}
	return bw.Flush()
}
