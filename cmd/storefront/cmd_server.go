package main

import (
	"github.com/spf13/cobra"

	"github.com/sadekstore/storefront/pkg/app"
	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/storage"
)

// storefront serve: boot the store and start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		return a.Serve(cmd.Context())
	},
}

// storefront route:list: print every registered route.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		disks := storage.NewManager("local")
		disks.Register("local", storage.NewLocalDisk(".", "/"))

		a := app.New(app.Options{
			Store:  nopStore{},
			Signer: auth.NewSigner("route-list"),
			Disks:  disks,
		})
		defer a.Close()

		return a.PrintRoutes(cmd.OutOrStdout())
	},
}
