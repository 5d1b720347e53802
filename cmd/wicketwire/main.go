package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wicketwire/internal/analytics"
	"wicketwire/internal/cmdlog"
	"wicketwire/internal/config"
	"wicketwire/internal/cricket"
	"wicketwire/internal/feedback"
	"wicketwire/internal/jobs"
	"wicketwire/internal/llm"
	"wicketwire/internal/metrics"
	"wicketwire/internal/safety"
	"wicketwire/internal/store/posts"
	"wicketwire/internal/theme"
	"wicketwire/internal/xclient"
)

func main() {
	_ = godotenv.Load()
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "once":
		cmdOnce()
	case "run":
		cmdRun()
	case "feedback":
		cmdFeedback()
	case "stats":
		cmdStats()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: wicketwire <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./wicketwire.yaml")
	fmt.Println("  once        Run a single decision cycle")
	fmt.Println("  run         Watch matches and reconcile feedback until stopped")
	fmt.Println("  feedback    Run a single feedback reconciliation cycle")
	fmt.Println("  stats       Show average engagement per narrative label")
}

func cmdInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "./wicketwire.yaml", "path to write config")
	_ = fs.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if cfg.Cricket.APIKey == "" {
		fmt.Println("warning: missing CRICAPI_API_KEY; match fetches will fail")
	}
	return cfg
}

func buildDeps(cfg config.Config, db *posts.DB) jobs.Deps {
	return jobs.Deps{
		Matches:   cricket.NewClient(cfg.Cricket.APIKey),
		LLM:       llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model),
		Publisher: newXClient(cfg),
		Store:     db,
		History:   safety.NewHistory(100),
		Pacer: safety.NewPacer(
			time.Duration(cfg.Pacing.MinSeconds)*time.Second,
			time.Duration(cfg.Pacing.MaxSeconds)*time.Second,
			cfg.Pacing.Enabled,
		),
		StylePath:  cfg.Storage.StylePath,
		StyleLimit: cfg.Storage.StyleLimit,
		Candidates: cfg.Loop.Candidates,
	}
}

func newXClient(cfg config.Config) *xclient.Client {
	return xclient.New(xclient.Credentials{
		ConsumerKey:    cfg.X.ConsumerKey,
		ConsumerSecret: cfg.X.ConsumerSecret,
		AccessToken:    cfg.X.AccessToken,
		AccessSecret:   cfg.X.AccessSecret,
	})
}

func openStore(cfg config.Config) *posts.DB {
	db, err := posts.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	return db
}

// exitIfQuota terminates the process on quota exhaustion; continuing would
// only burn more credit, so the operator has to intervene.
func exitIfQuota(err error) {
	if err == nil || !llm.IsQuotaExhausted(err) {
		return
	}
	fmt.Fprintln(os.Stderr, "\nOpenAI quota exceeded. Add billing or increase limits at:\n  https://platform.openai.com/account/billing")
	os.Exit(1)
}

func cmdOnce() {
	fs := flag.NewFlagSet("once", flag.ExitOnError)
	cfgPath := fs.String("config", "./wicketwire.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	cfg := loadConfig(*cfgPath)
	db := openStore(cfg)
	defer db.Close()
	deps := buildDeps(cfg, db)
	err := cmdlog.Run("once", func() error {
		return jobs.RunDecisionCycle(context.Background(), deps)
	})
	exitIfQuota(err)
	if err != nil {
		os.Exit(1)
	}
}

func cmdRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./wicketwire.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	cfg := loadConfig(*cfgPath)
	db := openStore(cfg)
	defer db.Close()
	deps := buildDeps(cfg, db)
	theme.PrintBanner()
	metrics.StartServer(cfg.Metrics.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = jobs.RunFeedbackLoop(ctx, db, newXClient(cfg),
			cfg.Loop.FeedbackBatch,
			time.Duration(cfg.Loop.FeedbackDelaySeconds)*time.Second,
			time.Duration(cfg.Loop.FeedbackMinutes)*time.Minute)
	}()

	err := jobs.RunMatchLoop(ctx, deps, time.Duration(cfg.Loop.MatchSeconds)*time.Second)
	exitIfQuota(err)
	if err != nil && ctx.Err() == nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func cmdFeedback() {
	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	cfgPath := fs.String("config", "./wicketwire.yaml", "config path")
	batch := fs.Int("batch", 0, "max posts to reconcile (default from config)")
	_ = fs.Parse(os.Args[2:])
	cfg := loadConfig(*cfgPath)
	if *batch <= 0 {
		*batch = cfg.Loop.FeedbackBatch
	}
	db := openStore(cfg)
	defer db.Close()
	var updated int
	err := cmdlog.Run("feedback", func() error {
		n, err := feedback.RunCycle(context.Background(), db, newXClient(cfg),
			*batch, time.Duration(cfg.Loop.FeedbackDelaySeconds)*time.Second)
		updated = n
		return err
	})
	if err != nil {
		os.Exit(1)
	}
	fmt.Printf("Updated engagement for %d posts\n", updated)
}

func cmdStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	cfgPath := fs.String("config", "./wicketwire.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	cfg := loadConfig(*cfgPath)
	db := openStore(cfg)
	defer db.Close()
	avgs, err := db.AvgScoreByEmotion(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	for _, la := range analytics.RankLabels(avgs) {
		fmt.Printf("%-8s avg=%.1f\n", la.Label, la.Avg)
	}
}
