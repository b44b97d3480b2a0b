package main

import (
	"fmt"
	"os"
	"strings"

	"benchkit/internal/harness"
	"benchkit/internal/telemetry"
	"benchkit/internal/workloads"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the harness version reported in run info and checked
// against module MinVersion constraints.
const Version = "0.3.0"

var exit = os.Exit
var cfgFile string

// moduleSources holds externally registered benchmark module sources.
// Linked-in extensions append here before Execute runs.
var moduleSources []harness.Source

var rootCmd = &cobra.Command{
	Use:   "benchkit",
	Short: "benchkit: an extensible micro-benchmark harness",
	Long: `benchkit runs a registry of named workloads under a shared stopwatch,
isolates each benchmark's failure, and reports per-benchmark timing plus
run-wide totals. Workload modules can be registered externally and the
whole run is configurable via a multiplier.`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'benchkit --help' for usage.")
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHistoryCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// explicit .env loading; missing file is fine
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("BENCHKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("listen", ":8080")
	viper.SetDefault("history_db", ".benchkit/history.db")
	viper.SetDefault("verbose", false)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newHarness assembles the harness over the built-in workload set plus
// any registered module sources.
func newHarness() *harness.Harness {
	opts := make([]harness.Option, 0, len(moduleSources))
	for _, src := range moduleSources {
		opts = append(opts, harness.WithSource(src))
	}
	return harness.New(Version, workloads.Builtins(), opts...)
}
