// Package schema prepares a catalog database for use: it applies the
// initialization script and seeds the default genres. It is safe to call on
// every start.
package schema

import (
	"context"

	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/errcodes"
	"github.com/shishobooks/catalog/pkg/genres"
	"github.com/shishobooks/catalog/pkg/migrations"
	"github.com/uptrace/bun"
)

// Initialize makes sure both catalog tables exist and that the genres table
// isn't empty. Failures are wrapped in errcodes.StorageFatal.
func Initialize(ctx context.Context, db *bun.DB, log logger.Logger) error {
	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		return errcodes.StorageFatal(err)
	}
	if group.ID == 0 {
		log.Debug("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	seeded, err := genres.NewService(db).SeedDefaultGenres(ctx)
	if err != nil {
		return errcodes.StorageFatal(err)
	}
	if seeded > 0 {
		log.Info("seeded default genres", logger.Data{"count": seeded})
	}

	return nil
}
