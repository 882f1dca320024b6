// Package main provides the mpvkitctl diagnostic CLI for the mpvkit
// player plugin.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/mpvkit/internal/logging"
	"github.com/bnema/mpvkit/pkg/gpu"
	"github.com/bnema/mpvkit/pkg/mpv"
)

// Build information set via ldflags
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mpvkitctl",
	Short: "Diagnostics for the mpvkit player plugin",
	Long:  `Inspect the environment an mpvkit-embedding application will run in: libmpv availability, GPU vendor, and suggested hardware-decoding settings.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("mpvkitctl %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", buildDate)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the host environment for player support",
	RunE: func(_ *cobra.Command, _ []string) error {
		log := logging.NewFromEnv()

		fmt.Printf("log level:  %s\n", log.GetLevel())
		fmt.Printf("log format: %s\n", viper.GetString("log_format"))

		if !mpv.IsNativeAvailable() {
			fmt.Println("libmpv:     not compiled in (build with -tags mpv_cgo)")
			return nil
		}

		// Route native stderr chatter from the checks into the
		// structured log; print the summary after restoring the fds.
		capture := logging.NewOutputCapture(log)
		if err := capture.Start(); err != nil {
			log.Warn().Err(err).Msg("output capture unavailable")
		}
		major, minor := mpv.ClientAPIVersion()
		info := gpu.Detect()
		capture.Stop()

		fmt.Printf("libmpv:     client API %d.%d\n", major, minor)
		fmt.Printf("gpu:        %s\n", info)
		if info.Driver != "" {
			fmt.Printf("driver:     %s\n", info.Driver)
		}
		for _, opt := range info.EngineOptions() {
			fmt.Printf("option:     %s=%s\n", opt.Key, opt.Value)
		}
		if info.SupportsVAAPI() {
			fmt.Printf("vaapi:      %s\n", info.VAAPIDriverName())
		}
		return nil
	},
}

func init() {
	viper.SetEnvPrefix("mpvkit")
	viper.AutomaticEnv()
	viper.SetDefault("log_format", "console")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
