package main

import (
	"catalog-admin/config"
	"catalog-admin/database"

	"github.com/urfave/cli"
)

func makeMigrateCMD() cli.Command {
	return cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrates database",
		Action:  migrate,
	}
}

func migrate(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := database.Open(cfg.DBURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info("database migrated")
	return nil
}
