package collections

import (
	"context"
	"fmt"
	"log"

	"quotebuilder/services"
	"quotebuilder/store"
)

// MigrateLegacyQuotes rewrites every stored quote whose lines, live or in
// a prior version, still use the flat characteristics format. It returns
// one report per line that lost characteristics on the way.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateLegacyQuotes(ctx context.Context, st store.Store) ([]services.LegacyReport, error) {
	quotes, err := st.LoadQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: could not load quotes: %w", err)
	}
	products, err := st.LoadProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate: could not load products: %w", err)
	}

	var reports []services.LegacyReport
	migrated := 0
	for i, q := range quotes {
		out, rs, changed := services.MigrateLegacyQuote(q, products)
		if !changed {
			continue
		}
		quotes[i] = out
		migrated++
		reports = append(reports, rs...)
		log.Printf("migrate: quote %s (%s) converted to the current line format\n", q.Number, q.ID)
	}

	if migrated == 0 {
		return nil, nil
	}

	for _, r := range reports {
		log.Printf("migrate: %s\n", r)
	}

	if err := st.SaveQuotes(ctx, quotes); err != nil {
		return nil, fmt.Errorf("migrate: could not save quotes: %w", err)
	}

	log.Printf("migrate: legacy quote migration complete (%d quote(s), %d line(s) with dropped characteristics).\n", migrated, len(reports))
	return reports, nil
}
