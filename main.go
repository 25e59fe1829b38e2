package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openshelf/catalogd/config"
	"github.com/openshelf/catalogd/internal/adminapi"
	"github.com/openshelf/catalogd/internal/app"
	"github.com/openshelf/catalogd/internal/webserver"
	"go.uber.org/zap"
)

var (
	conffile = flag.String("c", "catalogd.yml", "config file")
	initdb   = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("catalogd", version)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	webserver.Init(application)
	adminapi.Init(application)

	if err := webserver.Listen(); err != nil {
		zap.S().Fatal(err)
	}
}
