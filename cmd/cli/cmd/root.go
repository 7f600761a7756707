// Package cmd provides the CLI commands for solar-estimate.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solar-estimate/core/engine"
	"solar-estimate/core/output"
	"solar-estimate/core/rules"
	"solar-estimate/internal/config"
	"solar-estimate/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile   string
	rulesFile string
	verbose   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "solar-estimate",
	Short: "Generate solar installation estimates from site surveys",
	Long: `solar-estimate turns a solar-site survey record into an itemized
estimate: supplied goods, materials, construction, overhead and additional
work, with discount, consumption tax and a reasoning line for every item.

Examples:
  solar-estimate estimate survey.json --client "株式会社テスト物流"
  solar-estimate estimate survey.yaml --format xlsx --out estimate.xlsx
  solar-estimate validate survey.json
  solar-estimate rules --dump > pricing_rules.hcl`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.solar-estimate.json)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "pricing rule document (.hcl or .json); overrides the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	config.LoadDotEnv()

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return
	}
	logging.Debug("config loaded", zap.String("path", path), zap.String("rules", cfg.Rules.Path))
}

// loadRules reads the --rules document, the configured one, or the
// embedded defaults, in that order.
func loadRules() (*rules.RuleSet, error) {
	path := rulesFile
	if path == "" {
		path = config.Get().Rules.Path
	}
	if path == "" {
		return rules.LoadDefault()
	}
	return rules.Load(path)
}

func newEngine() (*engine.Engine, error) {
	rs, err := loadRules()
	if err != nil {
		return nil, err
	}
	return engine.New(rs,
		engine.WithLogger(logging.Named("engine")),
		engine.WithRepresentative(config.Get().Company.Representative),
	)
}

func company() output.Company {
	c := config.Get().Company
	return output.Company{
		Name:       c.Name,
		PostalCode: c.PostalCode,
		Address:    c.Address,
		Tel:        c.Tel,
		Fax:        c.Fax,
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "solar-estimate version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(config.Get())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
