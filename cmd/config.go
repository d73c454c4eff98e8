package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/btraven00/twtext/pkg/config"
)

// configCmd groups the weighting configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect weighting configurations",
	Long: `Inspect the weighting configuration selected with --preset or --weights.

Examples:
  twtext config show
  twtext config show --preset v2 --output json > weights.json
  twtext config show --weights weights.yaml
  twtext config presets`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		weights, err := loadWeights()
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), weights)
	},
}

var configPresetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPresets(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPresetsCmd)
}

func showConfig(w io.Writer, weights *config.Configuration) error {
	var (
		data []byte
		err  error
	)
	switch outputFormat() {
	case "json":
		data, err = weights.ToJSON()
	case "human", "yaml", "":
		data, err = weights.ToYAML()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat())
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

func listPresets(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Preset", "Max length", "Scale", "Default weight", "URL length", "Emoji", "Ranges"})
	table.SetBorder(false)

	for _, name := range config.PresetNames() {
		cfg, err := config.Preset(name)
		if err != nil {
			return err
		}
		table.Append([]string{
			name,
			strconv.Itoa(int(cfg.MaxWeightedTweetLength)),
			strconv.Itoa(int(cfg.Scale)),
			strconv.Itoa(int(cfg.DefaultWeight)),
			strconv.Itoa(int(cfg.TransformedURLLength)),
			strconv.FormatBool(cfg.EmojiParsingEnabled),
			strconv.Itoa(len(cfg.Ranges)),
		})
	}
	table.Render()
	return nil
}
