package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/gr-butler/agrokit/collector"
	logger "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()
	if *verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	dsn := lookup("COLLECTOR_DSN", "file:agrokit.db")
	addr := lookup("COLLECTOR_ADDR", ":3000")

	store, err := collector.Open(dsn)
	if err != nil {
		logger.Errorf("Failed to open store [%v]", err)
		logger.Exit(1)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           collector.NewRouter(store),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Infof("Collector listening on [%v]", addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Errorf("Collector stopped [%v]", err)
	}
}

func lookup(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
