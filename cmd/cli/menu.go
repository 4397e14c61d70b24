package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Thetiptop007/The-Tip-Top/internal/adminapi"
	"github.com/Thetiptop007/The-Tip-Top/internal/libs/jobs"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/db"
	"github.com/Thetiptop007/The-Tip-Top/internal/scope/search"
	"github.com/spf13/cobra"
)

func (a *app) menuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Search, import and list the menu",
	}
	cmd.AddCommand(a.menuSearchCmd(), a.menuImportCmd(), a.menuCategoriesCmd(),
		a.listCmd("list", "List menu items from the admin backend", adminapi.PathMenu, menuColumns()))
	return cmd
}

func (a *app) menuSearchCmd() *cobra.Command {
	var (
		file        string
		category    string
		limit       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Rank the local menu for a query",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := db.LoadCatalog(cmd.Context(), &db.FileSource{Path: a.menuFile(file)})
			if err != nil {
				return err
			}

			if interactive {
				return watchSearch(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), catalog, category, limit, a.cfg.SearchDebounce)
			}
			return printResults(cmd.OutOrStdout(), catalog, search.Query{Text: strings.Join(args, " "), Category: category}, limit)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "menu JSON file (default CATALOG_PATH)")
	cmd.Flags().StringVarP(&category, "category", "c", search.AllCategories, "category filter")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (0 for all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries from stdin as you type")
	return cmd
}

func printResults(w io.Writer, catalog *db.Catalog, q search.Query, limit int) error {
	results := catalog.Search(q, limit)
	if len(results) == 0 {
		fmt.Fprintf(w, "No dishes found for %q.\n", q.Text)
		return nil
	}

	tw := newTable(w, "SCORE", "ID", "NAME", "PRICE", "CATEGORIES")
	for _, r := range results {
		tw.row(strconv.Itoa(r.RelevanceScore), string(r.ID), r.Name,
			"₹"+r.Price.StringFixed(2), strings.Join(r.Categories, ", "))
	}
	return tw.flush()
}

// watchSearch ranks each input line once no newer line arrives within delay
func watchSearch(ctx context.Context, in io.Reader, out io.Writer, catalog *db.Catalog, category string, limit int, delay time.Duration) error {
	var mu sync.Mutex
	debounce := jobs.NewDebouncer(delay)
	defer debounce.Cancel()

	render := func(text string) {
		mu.Lock()
		defer mu.Unlock()
		_ = printResults(out, catalog, search.Query{Text: text, Category: category}, limit)
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// flush the final query instead of dropping it
				if debounce.Cancel() {
					render(last)
				}
				return <-scanErr
			}
			last = line
			debounce.Trigger(func() { render(line) })
		}
	}
}

func (a *app) menuCategoriesCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List menu categories in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := db.LoadCatalog(cmd.Context(), &db.FileSource{Path: a.menuFile(file)})
			if err != nil {
				return err
			}
			for _, c := range catalog.Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "menu JSON file (default CATALOG_PATH)")
	return cmd
}

func (a *app) menuImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the menu file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for import")
			}

			items, err := (&db.FileSource{Path: a.menuFile(file)}).Load(cmd.Context())
			if err != nil {
				return err
			}

			database, err := db.New(cmd.Context(), a.cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := database.SaveMenu(cmd.Context(), items); err != nil {
				return err
			}

			a.logger.Info().Int("items", len(items)).Msg("menu imported")
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items.\n", len(items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "menu JSON file (default CATALOG_PATH)")
	return cmd
}

func (a *app) menuFile(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.CatalogPath
}
