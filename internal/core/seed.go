package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SeedDomains is the built-in override set written on first startup
var SeedDomains = map[string]string{
	// Entertainment
	"netflix.com":      CategoryEntertainment,
	"primevideo.com":   CategoryEntertainment,
	"hotstar.com":      CategoryEntertainment,
	"spotify.com":      CategoryEntertainment,
	"instagram.com":    CategoryEntertainment,
	"facebookmail.com": CategoryEntertainment,
	"redditmail.com":   CategoryEntertainment,
	"pinterest.com":    CategoryEntertainment,

	// Shopping
	"amazon.in":    "Shopping",
	"flipkart.com": "Shopping",
	"ajio.com":     "Shopping",
	"myntra.com":   "Shopping",

	// Food
	"zomato.com": "Food",
	"swiggy.com": "Food",

	// Travel
	"ola.com":     CategoryTravel,
	"uber.com":    CategoryTravel,
	"airindia.in": CategoryTravel,
	"goindigo.in": CategoryTravel,

	// Finance
	"hdfcbank.com":  CategoryFinance,
	"icicibank.com": CategoryFinance,
	"axisbank.com":  CategoryFinance,
	"sbi.co.in":     CategoryFinance,
	"paytm.com":     CategoryFinance,

	// Career
	"linkedin.com": CategoryCareer,
	"naukri.com":   CategoryCareer,
	"indeed.com":   CategoryCareer,

	// Support
	"support.google.com":    CategorySupport,
	"support.microsoft.com": CategorySupport,
}

// SeedStore writes SeedDomains with source=seed into an empty store. A store
// that already holds records is left untouched so manual edits and deletions
// survive restarts.
func SeedStore(ctx context.Context, store LabelStore, logger *zap.Logger) error {
	existing, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect store before seeding: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("Store already initialized, skipping seed", zap.Int("records", len(existing)))
		return nil
	}

	for domain, label := range SeedDomains {
		if err := store.Put(ctx, domain, label, SourceSeed); err != nil {
			return fmt.Errorf("failed to seed %s: %w", domain, err)
		}
	}
	logger.Info("Seeded domain labels", zap.Int("count", len(SeedDomains)))
	return nil
}
