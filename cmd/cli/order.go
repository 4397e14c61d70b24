package main

import (
	"fmt"
	"strings"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/spf13/cobra"
)

func (a *app) ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, inspect and update orders",
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := a.client().GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Order #%s  %s\n", o.OrderNumber, o.Status)
			fmt.Fprintf(out, "%s  %s\n%s\n\n", o.Customer.Name, o.Customer.Phone, o.Customer.Address)

			tw := newTable(out, "ITEM", "QTY", "PRICE")
			for _, it := range o.Items {
				tw.row(it.Name, fmt.Sprint(it.Quantity), "₹"+it.Price.StringFixed(2))
			}
			if err := tw.flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nTotal: ₹%s\n", o.Pricing.FinalAmount.StringFixed(2))
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := strings.ToUpper(args[1])
			var err error
			if s == adminapi.StatusReady {
				err = a.client().MarkOrderReady(cmd.Context(), args[0])
			} else {
				err = a.client().UpdateOrderStatus(cmd.Context(), args[0], s)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s.\n", args[0], s)
			return nil
		},
	}

	assign := &cobra.Command{
		Use:   "assign <id> <partner-id>",
		Short: "Assign an order to a delivery partner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().AssignDelivery(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s assigned to %s.\n", args[0], args[1])
			return nil
		},
	}

	var reason string
	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().CancelOrder(cmd.Context(), args[0], reason); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s cancelled.\n", args[0])
			return nil
		},
	}
	cancel.Flags().StringVar(&reason, "reason", "Cancelled by admin", "cancellation reason")

	cmd.AddCommand(a.listCmd("list", "List orders", adminapi.PathOrders, orderColumns()), show, status, assign, cancel)
	return cmd
}
