package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
)

// PrintRoutes writes the route table as an aligned METHOD/PATH/NAME listing.
func (a *Application) PrintRoutes(out io.Writer) error {
	infos := a.Router().Routes()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No routes registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

// ResetData replaces the store with the seed document.
func (a *Application) ResetData(ctx context.Context) (repositories.ResetSummary, error) {
	return a.Dashboard.Reset(ctx)
}

// Reconcile rebuilds the order counters from the completed orders.
func (a *Application) Reconcile(ctx context.Context) (before, after models.Analytics, err error) {
	return a.Orders.RecomputeAnalytics(ctx)
}
