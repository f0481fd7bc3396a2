package main

import (
	"os"

	"catalog-admin/config"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "catalog-admin"
	app.Usage = "Runs the catalog admin dashboard API"
	app.Commands = []cli.Command{
		makeServeCMD(),
		makeMigrateCMD(),
	}
	app.Action = serve

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("failed to run app")
	}
}

func newLogger(cfg *config.Config) *log.Logger {
	l := log.New()
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		l.SetLevel(lvl)
	} else {
		l.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}
	if cfg.Production() {
		l.SetFormatter(&log.JSONFormatter{})
	} else {
		l.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return l
}
