package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notifyhub/config"
	"notifyhub/internal/database"
	"notifyhub/internal/router"

	"github.com/DavidGamba/go-getoptions"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type commandLineOptions struct {
	Config string
	Debug  bool
}

func parseCommandLine() *commandLineOptions {
	values := &commandLineOptions{}
	opt := getoptions.New()
	opt.Bool("help", false, opt.Alias("h", "?"))
	opt.StringVar(&values.Config, "config", "",
		opt.Alias("c"),
		opt.Description("the path to an optional YAML configuration file"))
	opt.BoolVar(&values.Debug, "debug", false, opt.Description("enable debug logging"))

	_, err := opt.Parse(os.Args[1:])
	if opt.Called("help") {
		fmt.Fprint(os.Stderr, opt.Help())
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n", err)
		fmt.Fprint(os.Stderr, opt.Help(getoptions.HelpSynopsis))
		os.Exit(1)
	}
	return values
}

func main() {
	options := parseCommandLine()

	// A missing .env file is fine; the environment and defaults still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("unable to load .env")
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	}
	if options.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.SeedSuperuser(db, &cfg.Superuser); err != nil {
		log.Fatalf("seed: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	engine, _ := router.Setup(ctx, cfg, db)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown: ", err)
	}
	log.Info("server stopped")
}
