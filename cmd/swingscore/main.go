package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"swingscore/internal/analyst"
	"swingscore/internal/config"
	"swingscore/internal/engine"
	"swingscore/internal/news"
	"swingscore/internal/provider"
	"swingscore/internal/scanner"
	"swingscore/internal/service"
	"swingscore/internal/watchlist"
	"swingscore/internal/web"
	"swingscore/pkg/model"
)

var (
	cfgFile string
	format  string
	verbose bool

	scoreDate string
	useAI     bool

	scanSymbols  string
	scanUniverse string
	scanWorkers  int
	scanMinScore int

	servePort int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swingscore",
		Short: "Swing-trading score engine for US stocks",
		Long: `Swingscore rates swing-trade candidates on a 0-100 composite of
trend, momentum, market regime, and relative strength, then derives a
dual-target trade plan for the survivors.

Examples:
  swingscore score AAPL
  swingscore score NVDA --date 2025-03-14 --format json
  swingscore scan --symbols AAPL,MSFT,NVDA,AMD --min-score 60
  swingscore serve --port 8080`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show detailed output")

	scoreCmd := &cobra.Command{
		Use:   "score TICKER",
		Short: "Score a single ticker",
		Args:  cobra.ExactArgs(1),
		RunE:  runScore,
	}
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "score as of date (YYYY-MM-DD, default today)")
	scoreCmd.Flags().BoolVar(&useAI, "ai", false, "include AI sentiment analysis (needs OPENAI_API_KEY)")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Score a watchlist in parallel and rank the results",
		RunE:  runScan,
	}
	scanCmd.Flags().StringVar(&scanSymbols, "symbols", "", "comma-separated tickers to scan")
	scanCmd.Flags().StringVar(&scanUniverse, "universe", "megacap", "predefined watchlist when --symbols is empty: megacap, nasdaq100")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "number of parallel workers (default from config)")
	scanCmd.Flags().IntVar(&scanMinScore, "min-score", 0, "drop results scoring under this threshold")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON analysis API",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")

	rootCmd.AddCommand(scoreCmd, scanCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildProvider assembles the bar source: Alpaca when keyed, Yahoo as
// the always-on fallback, with a per-run cache so SPY/VIX history is
// fetched once per scan rather than once per ticker.
func buildProvider(cfg *config.Config) provider.Provider {
	var providers []provider.Provider
	if cfg.API.Alpaca.KeyID != "" && cfg.API.Alpaca.SecretKey != "" {
		providers = append(providers, provider.NewAlpacaProvider(
			cfg.API.Alpaca.KeyID, cfg.API.Alpaca.SecretKey, cfg.API.Alpaca.RateLimit))
	}
	providers = append(providers, provider.NewYahooProvider())

	return provider.NewCachingProvider(
		provider.NewFallbackProvider(providers...), cfg.Engine.LookbackDays)
}

func buildEngine(cfg *config.Config) *engine.Engine {
	return engine.New(buildProvider(cfg), engine.Config{
		LookbackDays:     cfg.Engine.LookbackDays,
		MarketSymbol:     cfg.Engine.MarketSymbol,
		VolatilitySymbol: cfg.Engine.VolatilitySymbol,
	})
}

func buildAnalyzer(cfg *config.Config, eng *engine.Engine) *service.Analyzer {
	return service.NewAnalyzer(eng,
		news.NewClient(cfg.API.Polygon.Key),
		analyst.NewClient(cfg.API.OpenAI.Key))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted.")
		cancel()
	}()
	return ctx, cancel
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	eng := buildEngine(cfg)

	// Historical scoring skips news and AI; both are only meaningful
	// for the present.
	if scoreDate != "" {
		end, err := time.Parse("2006-01-02", scoreDate)
		if err != nil {
			return fmt.Errorf("invalid --date, expected YYYY-MM-DD: %w", err)
		}
		ticker, err := service.CleanTicker(args[0])
		if err != nil {
			return err
		}
		result, err := eng.ScoreAt(ctx, ticker, end)
		if err != nil {
			return err
		}
		if format == "json" {
			return outputJSON(result)
		}
		printScoreResult(result)
		return nil
	}

	report, err := buildAnalyzer(cfg, eng).Analyze(ctx, args[0], useAI)
	if err != nil {
		return err
	}
	if format == "json" {
		return outputJSON(report)
	}
	printReport(report)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scanWorkers > 0 {
		cfg.Scanner.Workers = scanWorkers
	}
	if cmd.Flags().Changed("min-score") {
		cfg.Scanner.MinScore = scanMinScore
	}

	var tickers []string
	if scanSymbols != "" {
		for _, raw := range strings.Split(scanSymbols, ",") {
			ticker, err := service.CleanTicker(raw)
			if err != nil {
				return err
			}
			tickers = append(tickers, ticker)
		}
	} else {
		tickers, err = watchlist.Get(watchlist.Universe(scanUniverse))
		if err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	s := scanner.New(buildEngine(cfg), cfg.Scanner.Workers, cfg.Scanner.Timeout, cfg.Scanner.MinScore)

	bar := progressbar.NewOptions(len(tickers),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Scoring"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	s.SetProgressCallback(func(scanned, total int) {
		bar.Set(scanned)
	})

	result, err := s.Scan(ctx, tickers)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	bar.Finish()
	fmt.Println()

	if format == "json" {
		return outputJSON(result)
	}
	return outputScanTable(result)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	eng := buildEngine(cfg)
	srv := web.NewServer(buildAnalyzer(cfg, eng), eng)

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Listening on http://localhost:%d\n", cfg.Server.Port)
	return srv.Start(cfg.Server.Port)
}

func outputScanTable(result *scanner.ScanResult) error {
	if len(result.Results) == 0 {
		fmt.Println("No candidates made the cut.")
		fmt.Printf("Scanned %d tickers in %s\n", result.TotalScanned, result.ScanTime.Round(time.Second))
		return nil
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Ticker", "Score", "Verdict", "Tech", "Regime", "RelStr", "Price"}),
	)

	for _, r := range result.Results {
		table.Append([]string{
			r.Ticker,
			fmt.Sprintf("%d", r.Score),
			coloredVerdict(r.Verdict),
			fmt.Sprintf("%d/%d", r.Breakdown.Technicals, engine.TechnicalsBudget),
			fmt.Sprintf("%d/%d", r.Breakdown.MarketRegime, engine.MarketRegimeBudget),
			fmt.Sprintf("%d/%d", r.Breakdown.RelativeStrength, engine.RelativeStrengthBudget),
			fmt.Sprintf("$%.2f", r.CurrentPrice),
		})
	}
	table.Render()

	if result.Failed > 0 {
		fmt.Printf("\n%d ticker(s) failed to score (see --verbose logs)\n", result.Failed)
	}
	fmt.Printf("\nScanned %d tickers in %s\n", result.TotalScanned, result.ScanTime.Round(time.Second))
	return nil
}

func printScoreResult(r *model.ScoreResult) {
	fmt.Printf("\n[%s] Score: %d/100  %s\n", r.Ticker, r.Score, coloredVerdict(r.Verdict))
	if r.Reason != "" {
		color.Red("  !! %s", r.Reason)
	}
	fmt.Printf("  Price: $%.2f\n", r.CurrentPrice)
	printBreakdown(r.Breakdown)
	printTradeSetup(r.TradeSetup)
}

func printReport(r *model.AnalysisReport) {
	fmt.Printf("\n[%s] Score: %d/100  %s\n", r.Ticker, r.Score, coloredVerdict(r.Verdict))
	if r.Warning != "" {
		color.Red("  !! %s", r.Warning)
	}
	fmt.Printf("  Price: $%.2f | As of: %s\n", r.CurrentPrice, r.Timestamp)
	printBreakdown(r.Breakdown)
	printTradeSetup(r.TradeSetup)

	if r.AISummary != "" {
		fmt.Printf("\n  AI: %s\n", r.AISummary)
		if risk, ok := r.Breakdown.Details.AISentiment["key_risk"].(string); ok && risk != "" {
			fmt.Printf("  Key risk: %s\n", risk)
		}
	}

	if len(r.News) > 0 {
		fmt.Println("\n  Recent news:")
		for _, article := range r.News {
			fmt.Printf("   - %s (%s)\n", article.Title, article.Publisher)
		}
	}
}

func printBreakdown(b model.ScoreBreakdown) {
	fmt.Printf("  Technicals:        %d/%d\n", b.Technicals, engine.TechnicalsBudget)
	fmt.Printf("  Market Regime:     %d/%d\n", b.MarketRegime, engine.MarketRegimeBudget)
	fmt.Printf("  Relative Strength: %d/%d\n", b.RelativeStrength, engine.RelativeStrengthBudget)
	if b.Details.AISentiment != nil {
		fmt.Printf("  AI Sentiment:      %d/%d\n", b.AISentiment, engine.SentimentBudget)
	}

	if verbose {
		for name, details := range map[string]map[string]any{
			"technicals":        b.Details.Technicals,
			"market_regime":     b.Details.MarketRegime,
			"relative_strength": b.Details.RelativeStrength,
		} {
			fmt.Printf("\n  [%s]\n", name)
			for k, v := range details {
				fmt.Printf("    %s: %v\n", k, v)
			}
		}
	}
}

func printTradeSetup(s *model.TradeSetup) {
	if s == nil {
		return
	}
	if s.Error != "" {
		fmt.Printf("  Trade setup unavailable: %s\n", s.Error)
		return
	}

	fmt.Println("\n  Trade setup:")
	fmt.Printf("    Buy zone:    $%.2f - $%.2f\n", s.BuyMin, s.BuyMax)
	fmt.Printf("    Stop:        $%.2f\n", s.SellStop)
	fmt.Printf("    Target safe: $%.2f (+%.1f%%, %d%% prob)\n", s.TargetSafe, s.TargetSafePct, s.ProbSafe)
	aggroNote := ""
	if !s.VolatilitySupported {
		aggroNote = " [beyond typical volatility]"
	}
	fmt.Printf("    Target aggr: $%.2f (+%.1f%%, %d%% prob)%s\n", s.TargetAggro, s.TargetAggroPct, s.ProbAggro, aggroNote)
	fmt.Printf("    Recommended: %s\n", s.Recommended)
}

func coloredVerdict(v model.Verdict) string {
	switch v {
	case model.VerdictStrongBuy:
		return color.HiGreenString(string(v))
	case model.VerdictBuy:
		return color.GreenString(string(v))
	case model.VerdictHold:
		return color.YellowString(string(v))
	case model.VerdictStrongSell:
		return color.HiRedString(string(v))
	default:
		return color.RedString(string(v))
	}
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
