package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vanachitra/fra-atlas/internal/config"
	"github.com/vanachitra/fra-atlas/internal/logging"
	"github.com/vanachitra/fra-atlas/internal/server"
	"github.com/vanachitra/fra-atlas/internal/service"
)

// Options defines all CLI flags and env vars for the atlas server.
// Flags: --host, --port, --data-dir, --web-dir, --config, --log-level, --log-format
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, ...
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8090"`
	DataDir   string `doc:"Directory for GeoJSON datasets" default:".data"`
	WebDir    string `doc:"Path to web/ directory" default:"web"`
	Config    string `doc:"Path to the atlas YAML config" default:"atlas.yaml"`
	LogLevel  string `doc:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `doc:"Log format (json or console)" default:"json"`
}

func newServer(opts *Options) (*server.Server, error) {
	log, err := logging.New(opts.LogLevel, opts.LogFormat)
	if err != nil {
		return nil, err
	}

	atlasCfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
		Atlas:   atlasCfg,
	}, log)
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv, err := newServer(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			if err := srv.LoadData(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Some datasets failed to load: %v\n", err)
			}
			srv.Run(ctx)

			fmt.Println()
			fmt.Printf("fra-atlas server starting...\n")
			fmt.Printf("  Server:    %s\n", baseURL)
			fmt.Printf("  Data:      %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Dashboard: %s/\n", baseURL)
			fmt.Printf("  Docs:      %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI:   %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			cancel()
			srv.Close()
		})
	})

	cli.Root().Use = "atlas"
	cli.Root().Short = "Forest rights claim atlas server"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			defer srv.Close()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(srv.OpenAPI())
			} else {
				output, err = json.MarshalIndent(srv.OpenAPI(), "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// check subcommand: vet a dataset file before serving it
	checkCmd := &cobra.Command{
		Use:   "check <file.geojson>",
		Short: "Normalize a GeoJSON file and print its category/status/area breakdown",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runCheck(args[0]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}
	cli.Root().AddCommand(checkCmd)

	cli.Run()
}

// runCheck normalizes one file and prints what the atlas would make of it.
func runCheck(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	features := service.Normalize(fc)
	stats := service.Summarize(features)

	fmt.Printf("%s: %d features, %.2f ha total\n\n", path, stats.TotalFeatures, stats.TotalAreaHectares)

	fmt.Println("By category:")
	for _, c := range service.Categories {
		if n := stats.CountByCategory[c]; n > 0 {
			fmt.Printf("  %-35s %d\n", c.Label(), n)
		}
	}

	fmt.Println("\nBy status:")
	statuses := make([]service.Status, 0, len(stats.CountByStatus))
	for s := range stats.CountByStatus {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	for _, s := range statuses {
		fmt.Printf("  %-35s %d\n", s.Label(), stats.CountByStatus[s])
	}

	unknown := stats.CountByCategory[service.CategoryUnknown]
	if unknown > 0 {
		fmt.Printf("\n%d features did not match any known schema and will render neutral.\n", unknown)
	}
	return nil
}
