package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"codeatlas/internal/config"
	"codeatlas/internal/diagram"
	"codeatlas/internal/output"
	"codeatlas/internal/pipeline"
	"codeatlas/internal/repo"
	"codeatlas/internal/resolve"
	"codeatlas/internal/scan"
	"codeatlas/internal/stats"
	"codeatlas/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "codeatlas",
		Short: "Code structure analyzer and diagram generator",
	}
	configPath string

	flagParallel    bool
	flagWorkers     int
	flagMaxEdges    int
	flagFilterTests bool
	flagOutputDir   string
	flagNoCache     bool
	flagNoDiagrams  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	analyzeCmd.Flags().BoolVar(&flagParallel, "parallel", true, "Extract files in parallel")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Worker pool size (0 = auto)")
	analyzeCmd.Flags().IntVar(&flagMaxEdges, "max-edges", diagram.DefaultMaxEdges, "Maximum edges per diagram")
	analyzeCmd.Flags().BoolVar(&flagFilterTests, "filter-tests", false, "Drop test entities from diagrams")
	analyzeCmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "Output directory (overrides config)")
	analyzeCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Skip the analysis cache")
	analyzeCmd.Flags().BoolVar(&flagNoDiagrams, "no-diagrams", false, "Omit mermaid blocks from the documentation document")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheClearCmd.Flags().Bool("expired", false, "Only remove expired entries")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(cacheCmd)
}

// analysisBundle is the cached unit: the full extraction result for one
// repository under one filter configuration. Diagrams are cheap to re-render
// from it, so they are never cached separately.
type analysisBundle struct {
	Result pipeline.Result `json:"result"`
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", configPath, err)
	}
	return cfg
}

func openCache(cfg *config.Config) *storage.Manager {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	mgr, err := storage.NewManager(cfg.Cache.Path, ttl)
	if err != nil {
		log.Fatalf("Failed to open cache at %s: %v", cfg.Cache.Path, err)
	}
	return mgr
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo]",
	Short: "Analyze a repository and generate structure diagrams",
	Long: `Analyze a local directory or remote git repository: extract functions,
classes, imports, calls, and inheritance, then render mermaid diagrams
(call graph, class hierarchy, module dependencies) plus a statistics
summary under the output directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target := "."
		if len(args) > 0 {
			target = args[0]
		}

		cfg := loadConfig()
		if cmd.Flags().Changed("parallel") {
			cfg.Analysis.Parallel = flagParallel
		}
		if cmd.Flags().Changed("workers") {
			cfg.Analysis.Workers = flagWorkers
		}
		if cmd.Flags().Changed("max-edges") {
			cfg.Analysis.MaxEdges = flagMaxEdges
		}
		if cmd.Flags().Changed("filter-tests") {
			cfg.Analysis.FilterTests = flagFilterTests
		}
		outputsDir := cfg.Output.Dir
		if flagOutputDir != "" {
			outputsDir = flagOutputDir
		}

		// 1. Materialize the repository locally
		fmt.Printf("📂 Resolving repository: %s\n", target)
		root, err := repo.CloneOrOpen(target, cfg.Cache.CloneDir)
		if err != nil {
			log.Fatalf("Failed to access repository: %v", err)
		}

		// 2. Cache lookup
		var mgr *storage.Manager
		var cacheKey string
		if !flagNoCache {
			mgr = openCache(cfg)
			defer mgr.Close()
			cacheKey = mgr.Key("analysis", target, map[string]string{
				"include_prefixes":   fmt.Sprint(cfg.Scan.IncludePrefixes),
				"include_globs":      fmt.Sprint(cfg.Scan.IncludeGlobs),
				"include_extensions": fmt.Sprint(cfg.Scan.IncludeExtensions),
				"exclude_globs":      fmt.Sprint(cfg.Scan.ExcludeGlobs),
			})
		}

		var result pipeline.Result
		var bundle analysisBundle
		if mgr != nil && mgr.Get(cacheKey, &bundle) {
			fmt.Println("⚡ Using cached analysis")
			result = bundle.Result
		} else {
			// 3. Scan + extract
			scanner := scan.NewScanner(scan.FilterConfig{
				IncludePrefixes:   cfg.Scan.IncludePrefixes,
				IncludeGlobs:      cfg.Scan.IncludeGlobs,
				IncludeExtensions: cfg.Scan.IncludeExtensions,
				ExcludeGlobs:      cfg.Scan.ExcludeGlobs,
			})
			descriptors, err := scanner.Scan(root)
			if err != nil {
				log.Fatalf("Scan failed: %v", err)
			}
			fmt.Printf("🚀 Extracting entities from %d files...\n", len(descriptors))

			start := time.Now()
			result = pipeline.Run(context.Background(), root, descriptors, pipeline.Options{
				Parallel: cfg.Analysis.Parallel,
				Workers:  cfg.Analysis.Workers,
			})
			fmt.Printf("✅ Extracted %d files (%d failed) in %v.\n",
				len(result.Entities), len(result.Errors), time.Since(start))

			if mgr != nil {
				mgr.Set("analysis", cacheKey, analysisBundle{Result: result})
			}
		}

		// 4. Resolve symbols & render diagrams
		labels := resolve.BuildLabelMap(result.Entities)
		opts := diagram.Options{
			MaxEdges:    cfg.Analysis.MaxEdges,
			FilterTests: cfg.Analysis.FilterTests,
		}
		diagrams := map[diagram.Kind]string{
			diagram.KindCall:             diagram.Render(result.Entities, labels, diagram.KindCall, opts),
			diagram.KindClassHierarchy:   diagram.Render(result.Entities, labels, diagram.KindClassHierarchy, opts),
			diagram.KindModuleDependency: diagram.Render(result.Entities, labels, diagram.KindModuleDependency, opts),
		}

		// 5. Summarize, assemble documentation, save
		summary := stats.Summarize(result.Entities, result.Errors)
		documentation := output.BuildMarkdown(target, result.Entities, &summary, diagrams, output.DocumentOptions{
			IncludeDiagrams: !flagNoDiagrams,
		})
		saved, err := output.SaveResults(target, documentation, diagrams, &summary, outputsDir)
		if err != nil {
			log.Fatalf("Failed to save results: %v", err)
		}

		fmt.Printf("📊 %d functions, %d classes, %d calls, %d imports across %d files.\n",
			summary.Functions, summary.Classes, summary.Calls, summary.Imports, summary.Files)
		for _, xerr := range result.Errors {
			fmt.Printf("⚠️  %s: %s\n", xerr.File, xerr.Cause)
		}
			fmt.Printf("📝 Documentation: %s\n", saved.DocumentationPath)
		fmt.Printf("🎉 Results written to %s\n", saved.BaseDir)
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the analysis cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts and size",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		mgr := openCache(cfg)
		defer mgr.Close()

		cs, err := mgr.Stats()
		if err != nil {
			log.Fatalf("Failed to read cache stats: %v", err)
		}
		fmt.Printf("Entries:  %d total, %d valid, %d expired\n",
			cs.TotalEntries, cs.ValidEntries, cs.ExpiredEntries)
		fmt.Printf("Size:     %d bytes\n", cs.TotalSizeBytes)
		fmt.Printf("Database: %s\n", cfg.Cache.Path)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cache entries",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		mgr := openCache(cfg)
		defer mgr.Close()

		expiredOnly, _ := cmd.Flags().GetBool("expired")
		var removed int
		var err error
		if expiredOnly {
			removed, err = mgr.ClearExpired()
		} else {
			removed, err = mgr.ClearAll()
		}
		if err != nil {
			log.Fatalf("Failed to clear cache: %v", err)
		}
		fmt.Printf("🧹 Removed %d cache entries.\n", removed)
	},
}
