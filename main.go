package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"quotebuilder/collections"
	"quotebuilder/handlers"
	"quotebuilder/services"
	"quotebuilder/store"
)

// Command line configuration, registered on the PocketBase root command.
var (
	storeKind string
	storeDir  string
	seed      bool
)

func main() {
	app := pocketbase.New()

	flags := app.RootCmd.PersistentFlags()
	flags.StringVar(&storeKind, "store", "records", "where documents live: records (PocketBase collections) or json (files)")
	flags.StringVar(&storeDir, "storeDir", "", "directory of the json store (default <dataDir>/quotes)")
	flags.BoolVar(&seed, "seed", true, "write the default catalog when it is empty")

	app.RootCmd.AddCommand(migrateLegacyCommand(app))

	var st store.Store

	// Create collections, open the store, seed and migrate on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		var err error
		if st, err = openStore(app); err != nil {
			return err
		}
		ctx := context.Background()
		if seed {
			if err := collections.Seed(ctx, st); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if _, err := collections.MigrateLegacyQuotes(ctx, st); err != nil {
			log.Printf("Warning: legacy quote migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		catalog := services.NewCatalog(st)
		clients := services.NewClientService(st)
		quotes := services.NewQuoteService(st)

		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Catalog ──────────────────────────────────────────────
		se.Router.GET("/api/products", handlers.HandleProductList(catalog))
		se.Router.POST("/api/products", handlers.HandleProductCreate(catalog))
		se.Router.GET("/api/products/{id}", handlers.HandleProductGet(catalog))
		se.Router.PUT("/api/products/{id}", handlers.HandleProductUpdate(catalog))
		se.Router.DELETE("/api/products/{id}", handlers.HandleProductDelete(catalog))
		se.Router.PUT("/api/products/{id}/characteristics/{name}", handlers.HandleCharacteristicUpsert(catalog))
		se.Router.DELETE("/api/products/{id}/characteristics/{name}", handlers.HandleCharacteristicDelete(catalog))

		// ── Clients ──────────────────────────────────────────────
		se.Router.GET("/api/clients", handlers.HandleClientList(clients))
		se.Router.POST("/api/clients", handlers.HandleClientCreate(clients))
		se.Router.GET("/api/clients/{id}", handlers.HandleClientGet(clients))
		se.Router.PUT("/api/clients/{id}", handlers.HandleClientUpdate(clients))
		se.Router.DELETE("/api/clients/{id}", handlers.HandleClientDelete(clients))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(quotes))
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(quotes))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteGet(quotes))
		se.Router.PUT("/api/quotes/{id}", handlers.HandleQuoteReplace(quotes))
		se.Router.DELETE("/api/quotes/{id}", handlers.HandleQuoteDelete(quotes))
		se.Router.PATCH("/api/quotes/{id}/status", handlers.HandleQuoteStatus(quotes))
		se.Router.POST("/api/quotes/{id}/refresh-prices", handlers.HandleQuoteRefreshPrices(quotes))

		// Quote lines
		se.Router.POST("/api/quotes/{id}/lines", handlers.HandleLineAdd(quotes))
		se.Router.PUT("/api/quotes/{id}/lines/{lineId}", handlers.HandleLineUpdate(quotes))
		se.Router.DELETE("/api/quotes/{id}/lines/{lineId}", handlers.HandleLineDelete(quotes))
		se.Router.POST("/api/quotes/{id}/lines/{lineId}/duplicate", handlers.HandleLineDuplicate(quotes))
		se.Router.POST("/api/quotes/{id}/lines/{lineId}/move", handlers.HandleLineMove(quotes))
		se.Router.POST("/api/quotes/{id}/lines/{lineId}/characteristics/{name}", handlers.HandleLineCharacteristic(quotes))

		// Versions and exports
		se.Router.GET("/api/quotes/{id}/versions", handlers.HandleVersionList(quotes))
		se.Router.POST("/api/quotes/{id}/versions", handlers.HandleVersionCreate(quotes))
		se.Router.GET("/api/quotes/{id}/versions/{version}", handlers.HandleVersionGet(quotes))
		se.Router.GET("/api/quotes/{id}/versions/{version}/export/excel", handlers.HandleQuoteExportExcel(quotes, catalog))
		se.Router.GET("/api/quotes/{id}/versions/{version}/export/pdf", handlers.HandleQuoteExportPDF(quotes, catalog))

		// ── Customer page ────────────────────────────────────────
		se.Router.GET("/p/{id}", handlers.HandleCustomerPage(quotes, catalog))
		se.Router.POST("/api/quotes/{id}/customer-selections", handlers.HandleCustomerSelections(quotes, catalog))

		se.Router.GET("/api/stats", handlers.HandleStats(quotes))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// openStore builds the store selected by --store. The records store needs
// the collections created by collections.Setup.
func openStore(app *pocketbase.PocketBase) (store.Store, error) {
	switch storeKind {
	case "records":
		collections.Setup(app)
		return store.NewRecordStore(app), nil
	case "json":
		dir := storeDir
		if dir == "" {
			dir = filepath.Join(app.DataDir(), "quotes")
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		return fs, nil
	}
	return nil, fmt.Errorf("unknown --store %q (want records or json)", storeKind)
}

// migrateLegacyCommand rewrites quotes still in the flat characteristics
// format and prints what each line lost on the way.
func migrateLegacyCommand(app *pocketbase.PocketBase) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-legacy",
		Short: "Convert stored quotes to the current line format",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return err
			}
			reports, err := collections.MigrateLegacyQuotes(cmd.Context(), st)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				color.Green("migrate-legacy: no characteristics were dropped")
				return nil
			}
			for _, r := range reports {
				color.Yellow("  %s", r)
			}
			color.Green("migrate-legacy: %d line(s) lost characteristics", len(reports))
			return nil
		},
	}
}
