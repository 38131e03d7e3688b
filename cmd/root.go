package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ghdl/internal/config"
	"ghdl/internal/download"
	"ghdl/internal/output"
	"ghdl/internal/scheduler"
	"ghdl/internal/utils"
)

var (
	configPath string
	logLevel   string
)

var GhdlVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "ghdl",
	Short:   "Ghdl downloads the latest GitHub release assets from configured repositories",
	Version: GhdlVersion,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !output.ValidLevel(logLevel) {
			output.PrintError(fmt.Sprintf("Invalid log level %q (choose debug, info, warning, error, fatal)", logLevel))
			os.Exit(2)
		}
		output.InitLogger(logLevel)

		cfg, err := config.Load(configPath)
		if err != nil {
			output.PrintError(fmt.Sprintf("Config error: %v", err))
			os.Exit(2)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		summary, err := scheduler.Run(ctx, cfg)
		if err != nil {
			output.PrintError(fmt.Sprintf("Run failed: %v", err))
			os.Exit(1)
		}
		if ctx.Err() != nil {
			output.PrintWarning("Interrupted, run incomplete")
		}
		printSummary(summary)
		if !summary.OK() {
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the config file (JSON or YAML)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "warning", "Log level (debug, info, warning, error, fatal)")
	rootCmd.MarkFlagRequired("config")
}

func printSummary(summary *scheduler.Summary) {
	output.PrintHeader("Download Summary")
	for _, res := range summary.Results {
		switch res.Outcome {
		case download.Downloaded:
			detail := utils.FormatBytes(uint64(res.Asset.Size))
			if res.Elapsed > 0 && res.Asset.Size > 0 {
				detail += " at " + utils.FormatSpeed(res.Asset.Size, res.Elapsed.Seconds())
			}
			output.PrintSuccess(fmt.Sprintf("  %s %s (%s)", output.StyleSymbols["pass"], res.Asset.Name, detail))
		case download.Skipped:
			output.PrintDetail(fmt.Sprintf("  %s %s (exists, skipped)", output.StyleSymbols["bullet"], res.Asset.Name))
		case download.Failed:
			output.PrintError(fmt.Sprintf("  %s %s: %v", output.StyleSymbols["fail"], res.Asset.Name, res.Err))
		}
	}
	for _, failure := range summary.RepoFailures {
		output.PrintError(fmt.Sprintf("  %s %s: %v", output.StyleSymbols["fail"], failure.Repo, failure.Err))
	}
	output.PrintInfo(fmt.Sprintf("%d downloaded, %d skipped, %d failed, %d repository errors",
		summary.Downloaded, summary.Skipped, summary.Failed, len(summary.RepoFailures)))
}
