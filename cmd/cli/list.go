package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/listing"
	"github.com/spf13/cobra"
)

// lister loads one page of a collection as table rows
type lister interface {
	headers() []string
	defaults() map[string]string
	load(ctx context.Context, fetch listing.FetchFunc, opts listing.Options, page int) ([][]string, listing.Pagination, error)
}

type columns[T any] struct {
	names   []string
	filters map[string]string
	row     func(T) []string
}

func (c columns[T]) headers() []string { return c.names }
func (c columns[T]) defaults() map[string]string { return c.filters }

func (c columns[T]) load(ctx context.Context, fetch listing.FetchFunc, opts listing.Options, page int) ([][]string, listing.Pagination, error) {
	ctl := listing.New[T](ctx, fetch, opts)
	defer ctl.Close()

	ctl.Load(ctx)
	if page > 1 {
		if err := ctl.GoToPage(ctx, page); err != nil {
			return nil, ctl.State().Pagination, fmt.Errorf("page %d: %w", page, err)
		}
	}

	st := ctl.State()
	if st.Error != "" {
		return nil, st.Pagination, errors.New(st.Error)
	}

	rows := make([][]string, len(st.Items))
	for i, it := range st.Items {
		rows[i] = c.row(it)
	}
	return rows, st.Pagination, nil
}

func (a *app) listCmd(use, short, path string, cols lister) *cobra.Command {
	var (
		page    int
		limit   int
		query   string
		filters map[string]string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			merged := make(map[string]string, len(cols.defaults())+len(filters))
			for k, v := range cols.defaults() {
				merged[k] = v
			}
			for k, v := range filters {
				merged[k] = v
			}
			if limit <= 0 {
				limit = a.cfg.PageLimit
			}

			rows, p, err := cols.load(cmd.Context(), a.client().Lister(path), listing.Options{
				Limit:    limit,
				Debounce: a.cfg.ListDebounce,
				Filters:  merged,
				Search:   query,
				Logger:   a.logger,
			}, page)
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout(), cols.headers()...)
			for _, r := range rows {
				tw.row(r...)
			}
			if err := tw.flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d total)\n", max(p.Page, 1), max(p.TotalPages, 1), p.TotalItems)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "page size (default PAGE_LIMIT)")
	cmd.Flags().StringVarP(&query, "search", "s", "", "search text")
	cmd.Flags().StringToStringVar(&filters, "filter", nil, "filter as name=value, repeatable")
	return cmd
}

func orderColumns() lister {
	return columns[adminapi.Order]{
		names: []string{"ORDER", "STATUS", "CUSTOMER", "PHONE", "AMOUNT", "PLACED"},
		row: func(o adminapi.Order) []string {
			placed := ""
			if !o.CreatedAt.IsZero() {
				placed = o.CreatedAt.Local().Format("02 Jan 15:04")
			}
			return []string{o.OrderNumber, o.Status, o.Customer.Name, o.Customer.Phone,
				"₹" + o.Pricing.FinalAmount.StringFixed(2), placed}
		},
	}
}

func menuColumns() lister {
	return columns[adminapi.MenuItem]{
		names: []string{"ID", "NAME", "CATEGORY", "PRICE", "AVAILABLE"},
		row: func(m adminapi.MenuItem) []string {
			return []string{m.ID, m.Name, m.Category, "₹" + m.Price.StringFixed(2), strconv.FormatBool(m.IsAvailable)}
		},
	}
}

func userColumns() lister {
	return columns[adminapi.User]{
		names:   []string{"ID", "NAME", "PHONE", "EMAIL", "BLOCKED"},
		filters: map[string]string{"role": "customer"},
		row: func(u adminapi.User) []string {
			return []string{u.ID, u.Name, u.Phone, u.Email, strconv.FormatBool(u.IsBlocked)}
		},
	}
}

func partnerColumns() lister {
	return columns[adminapi.DeliveryPartner]{
		names: []string{"ID", "NAME", "PHONE", "AVAILABLE"},
		row: func(d adminapi.DeliveryPartner) []string {
			return []string{d.ID, d.Name, d.Phone, strconv.FormatBool(d.IsAvailable)}
		},
	}
}

type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}
