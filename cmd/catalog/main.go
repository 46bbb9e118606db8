package main

import (
	"context"
	"os"

	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/shishobooks/catalog/pkg/books"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/console"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/genres"
	"github.com/shishobooks/catalog/pkg/schema"
	"github.com/shishobooks/catalog/pkg/version"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}
	log = logger.NewWithLevel(cfg.LogLevel)

	app := &cli.App{
		Name:    "catalog",
		Usage:   "console catalog of books and genres",
		Version: version.Version,
		Action: func(c *cli.Context) error {
			db := openCatalog(c.Context, cfg, log)
			defer closeCatalog(db, log)

			cons := console.New(books.NewService(db), genres.NewService(db), log, console.Options{
				In:          os.Stdin,
				Out:         os.Stdout,
				ClearScreen: cfg.ClearScreen,
			})

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			graceful := signals.Setup()
			done := make(chan error, 1)
			go func() {
				done <- cons.Run(ctx)
			}()

			select {
			case err := <-done:
				return err
			case <-graceful:
				log.Info("starting graceful shutdown")
				cancel()
				return nil
			}
		},
		Commands: []*cli.Command{
			{
				Name:  "export",
				Usage: "print every book as JSON",
				Action: func(c *cli.Context) error {
					db := openCatalog(c.Context, cfg, log)
					defer closeCatalog(db, log)

					return books.NewService(db).ExportBooks(c.Context, os.Stdout)
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

// openCatalog opens the database and makes sure it is initialized. Any
// failure here is fatal.
func openCatalog(ctx context.Context, cfg *config.Config, log logger.Logger) *bun.DB {
	log.Info("starting catalog", logger.Data{"version": version.Version, "database": cfg.DatabaseFilePath})

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	err = schema.Initialize(ctx, db, log)
	if err != nil {
		db.Close()
		log.Err(err).Fatal("schema error")
	}

	return db
}

func closeCatalog(db *bun.DB, log logger.Logger) {
	err := db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
