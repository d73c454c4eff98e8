package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/btraven00/twtext/pkg/config"
)

func init() {
	color.NoColor = true
}

// executeCommand runs the root command with args and returns what it wrote
// to stdout. Flags are reset afterwards so tests do not leak into each other.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	defer resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(append([]string{"--quiet"}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	cmd.SilenceUsage = false
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestLoadWeights(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantVersion int32
		wantMax     int32
		wantErr     bool
	}{
		{"default preset", nil, 3, 280, false},
		{"v1 preset", []string{"--preset", "v1"}, 1, 140, false},
		{"upper case preset", []string{"--preset", "V2"}, 2, 280, false},
		{"unknown preset", []string{"--preset", "v9"}, 0, 0, true},
		{"descriptor file", []string{"--weights", filepath.Join("..", "pkg", "config", "testdata", "config.json")}, 42, 400, false},
		{"missing descriptor", []string{"--weights", "missing.json"}, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags(rootCmd)
			if err := rootCmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg, err := loadWeights()
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadWeights() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.Version != tt.wantVersion || cfg.MaxWeightedTweetLength != tt.wantMax {
				t.Errorf("loadWeights() = v%d/%d, want v%d/%d", cfg.Version, cfg.MaxWeightedTweetLength, tt.wantVersion, tt.wantMax)
			}
		})
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"flag default", nil, "human"},
		{"long flag", []string{"--output", "json"}, "json"},
		{"short flag upper case", []string{"-o", "JSON"}, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags(rootCmd)
			if err := rootCmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			if got := outputFormat(); got != tt.want {
				t.Errorf("outputFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigCommands(t *testing.T) {
	out, err := executeCommand(t, nil, "config", "show", "--output", "json")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	cfg, err := config.FromJSON([]byte(out))
	if err != nil {
		t.Fatalf("config show printed an unreadable descriptor: %v\n%s", err, out)
	}
	if !cfg.Equal(config.ConfigV3()) {
		t.Errorf("config show = %+v, want v3", cfg)
	}

	out, err = executeCommand(t, nil, "config", "show", "--preset", "v1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "maxWeightedTweetLength: 140") {
		t.Errorf("unexpected YAML output:\n%s", out)
	}

	out, err = executeCommand(t, nil, "config", "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range config.PresetNames() {
		if !strings.Contains(out, name) {
			t.Errorf("presets output missing %s:\n%s", name, out)
		}
	}
}

func TestKindsCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "kinds", "--examples")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Available kinds (6)", "username", "url_without_protocol", "@twitter/team"} {
		if !strings.Contains(out, want) {
			t.Errorf("kinds output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, nil, "kinds", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"count": 6`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}

	out, err = executeCommand(t, nil, "kinds", "--entities", "--examples")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Entity types (7)", "federated_mention", "cashtag", "@twitter/team", "example.notatld"} {
		if !strings.Contains(out, want) {
			t.Errorf("kinds --entities output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, nil, "kinds", "--entities", "-o", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"count": 7`) || !strings.Contains(out, `"trigger": "http:// or https://"`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
}

func TestTLDCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "tld", "com", ".jp", "みんな", "xn--q9jyb4c", "notatld")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"✅ com:", "✅ jp:", "✅ みんな:", "✅ xn--q9jyb4c:", "❌ notatld:"} {
		if !strings.Contains(out, want) {
			t.Errorf("tld output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, nil, "tld", "--list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "xn--q9jyb4c") || !strings.Contains(out, "みんな") {
		t.Errorf("tld --list is missing keys:\n%s", out)
	}

	if _, err := executeCommand(t, nil, "tld"); err == nil {
		t.Error("Expected an error without labels")
	}
}

func TestDebugCommand(t *testing.T) {
	out, err := executeCommand(t, nil, "debug", "a日")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"U+0061", "U+65E5", "Total: 300 (3 characters)"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}

func TestWeighCharacters(t *testing.T) {
	chars := weighCharacters("a👍🏽", config.ConfigV3())
	if len(chars) != 2 {
		t.Fatalf("Expected 2 grapheme clusters, got %+v", chars)
	}
	if chars[0].Weight != 100 || chars[1].Weight != 200 {
		t.Errorf("unexpected weights %+v", chars)
	}
	if len(chars[1].CodePoints) != 2 {
		t.Errorf("Expected 2 code points in the emoji cluster, got %d", len(chars[1].CodePoints))
	}
}
