package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/pkg/app"
	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/database"
)

var resetForce bool

// storefront reset-data --force
var resetDataCmd = &cobra.Command{
	Use:   "reset-data",
	Short: "Replace all store data with the seed document",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return errors.New("reset-data deletes every product and order; pass --force to continue")
		}

		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.ResetData(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Store reset: %d products and %d orders deleted\n",
			summary.ProductsDeleted, summary.OrdersDeleted)
		return nil
	},
}

// storefront reconcile
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Rebuild order count and revenue from completed orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		before, after, err := a.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ordersCount: %d -> %d\nrevenue:     %.2f -> %.2f\n",
			before.OrdersCount, after.OrdersCount, before.Revenue, after.Revenue)
		return nil
	},
}

// storefront hash-password <password>
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	resetDataCmd.Flags().BoolVar(&resetForce, "force", false, "confirm the reset")
}

// nopStore backs the throwaway app used to print routes.
type nopStore struct{}

func (nopStore) Load(context.Context) (*models.Document, error) { return nil, database.ErrNoDocument }
func (nopStore) Save(context.Context, *models.Document) error   { return nil }
func (nopStore) Close() error                                  { return nil }
