package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/config"
	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/pages"
	"github.com/stellasorawiki/wikigen/wiki"
)

func main() {
	configPath := flag.String("config", "wikigen.yaml", "config file")
	dryRun := flag.Bool("dry-run", false, "log page edits and uploads instead of performing them")
	list := flag.Bool("list", false, "list jobs and exit")
	only := flag.String("only", "", "comma separated character names to limit character jobs to")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: wikigen [flags] <all | job...>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	registry := pages.NewRegistry()
	pages.Register(registry)
	if *list {
		for _, j := range registry.Jobs() {
			fmt.Printf("%-14s %s\n", j.Name, j.Desc)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	logFile, err := initLogger(cfg.LogFile, *verbose)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	defer logFile.Close()

	log.Info().Str("version", Version).Bool("dry_run", cfg.DryRun).Msg("wikigen")

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	jobs, err := registry.Select(flag.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to select jobs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := wiki.New(wiki.Options{
		API:       cfg.Wiki.API,
		User:      cfg.Wiki.User,
		Password:  cfg.Wiki.Password,
		UserAgent: cfg.Wiki.UserAgent,
		DryRun:    cfg.DryRun,
		Timeout:   time.Duration(cfg.Wiki.Timeout) * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create wiki client")
	}
	if needsWiki(jobs) {
		if err := client.Login(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to log in")
		}
	}

	store := gamedata.NewStore(gamedata.Layout{
		Root:   cfg.Data.Root,
		Region: cfg.Data.Region,
		Locale: cfg.Data.Locale,
	})
	env := pages.NewEnv(cfg, store, client)
	if *only != "" {
		for _, name := range strings.Split(*only, ",") {
			if name = strings.TrimSpace(name); name != "" {
				env.Only = append(env.Only, name)
			}
		}
	}

	if err := pages.Run(ctx, env, jobs); err != nil {
		log.Error().Err(err).Msg("Run failed")
		logFile.Close()
		os.Exit(1)
	}
	log.Info().Msg("Done")
}

// offlineJobs never touch the wiki.
var offlineJobs = map[string]bool{"unpack-lua": true}

func needsWiki(jobs []pages.Job) bool {
	for _, j := range jobs {
		if !offlineJobs[j.Name] {
			return true
		}
	}
	return false
}
