// Package main implements the tiptop operator CLI: menu search, admin list
// screens and dashboard stats.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/config"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/obs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "tiptop",
		Short:         "The Tip Top operator CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			obs.InitLogger(cfg.LogLevel)
			a.cfg = cfg
			a.logger = obs.Logger("cli")
			return nil
		},
	}

	root.AddCommand(
		a.menuCmd(),
		a.ordersCmd(),
		group("customers", "Customer screens", a.listCmd("list", "List customers", adminapi.PathUsers, userColumns())),
		group("delivery", "Delivery partner screens", a.listCmd("list", "List delivery partners", adminapi.PathDeliveryPartners, partnerColumns())),
		a.statsCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func group(use, short string, cmds ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}
	cmd.AddCommand(cmds...)
	return cmd
}

func (a *app) client() *adminapi.Client {
	return adminapi.New(a.cfg.AdminAPIURL,
		adminapi.WithToken(a.cfg.AdminToken),
		adminapi.WithHTTPClient(&http.Client{Timeout: a.cfg.RequestTimeout}),
		adminapi.WithLogger(a.logger),
	)
}
