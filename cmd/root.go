package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/btraven00/twtext/pkg/config"
)

var (
	cfgFile     string
	quiet       bool
	verbose     bool
	output      string
	preset      string
	weightsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "twtext",
	Short: "Extract entities from short messages and check their weighted length",
	Long: `twtext finds mentions, lists, hashtags, cashtags, URLs and federated
mentions in short messages and measures them against a weighted length limit.

Weighting follows a versioned configuration: v1 counts every code point once,
v2 weighs CJK and other wide scripts double and shortens links, and v3 also
counts every emoji sequence as a single character.

Examples:
  twtext extract "Hello @alice, see https://example.com #news"
  twtext check --preset v1 "A message for the old limit"
  twtext validate @alice "#golang" example.com
  twtext extract --file thread.md --only hashtags`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.twtext.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "quiet output (suppress status messages)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "human", "output format (human, json)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "v3", "weighting preset ("+strings.Join(config.PresetNames(), ", ")+")")
	rootCmd.PersistentFlags().StringVar(&weightsFile, "weights", "", "weighting descriptor file (JSON or YAML), overrides --preset")

	for _, name := range []string{"output", "preset", "weights"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".twtext" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".twtext")
	}

	viper.SetEnvPrefix("TWTEXT")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && !quiet {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// outputFormat returns the effective output format, with flags taking
// precedence over the config file and environment.
func outputFormat() string {
	return strings.ToLower(viper.GetString("output"))
}

// loadWeights resolves the weighting configuration from --weights or
// --preset.
func loadWeights() (*config.Configuration, error) {
	if path := viper.GetString("weights"); path != "" {
		cfg, err := config.FromPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load weights: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Preset(strings.ToLower(viper.GetString("preset")))
	if err != nil {
		return nil, fmt.Errorf("invalid --preset: %w", err)
	}
	return cfg, nil
}

// status prints a progress line on stderr unless --quiet is set.
func status(format string, args ...interface{}) {
	if quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
