// volsurf — Black-Scholes option pricing with live price surfaces
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/volsurf/volsurf/api"
	"github.com/volsurf/volsurf/internal/config"
	"github.com/volsurf/volsurf/internal/pricing"
	"github.com/volsurf/volsurf/internal/render"
	"github.com/volsurf/volsurf/internal/session"
	"github.com/volsurf/volsurf/pkg/models"
	"github.com/volsurf/volsurf/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "volsurf",
	Short: "volsurf — Black-Scholes option pricing with live price surfaces",
	Long: `volsurf prices European call/put options under Black-Scholes-Merton
and evaluates full price surfaces over spot and volatility grids,
rendered as terminal heatmaps or streamed live to the browser UI
over WebSocket.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(surfaceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// overrideFloat copies a flag value into dst only when the flag was
// set on the command line, so configured defaults survive otherwise.
func overrideFloat(cmd *cobra.Command, name string, dst *float64) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetFloat64(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, dst *int) {
	if cmd.Flags().Changed(name) {
		*dst, _ = cmd.Flags().GetInt(name)
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("volsurf %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Price Command ---

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a single European call/put pair",
	Long: `Price a European call and put under Black-Scholes-Merton.

Inputs default to the configured values; flags override them per run:

  volsurf price
  volsurf price --spot 110 --vol 0.25
  volsurf price --maturity 0.5 --rate -0.01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cfg.DefaultInputs()
		overrideFloat(cmd, "spot", &in.Spot)
		overrideFloat(cmd, "strike", &in.Strike)
		overrideFloat(cmd, "maturity", &in.Maturity)
		overrideFloat(cmd, "rate", &in.Rate)
		overrideFloat(cmd, "vol", &in.Volatility)

		quote, err := pricing.Price(pricing.Parameters{
			Spot:       in.Spot,
			Strike:     in.Strike,
			Maturity:   in.Maturity,
			Rate:       in.Rate,
			Volatility: in.Volatility,
		})
		if err != nil {
			return err
		}

		snap := &models.Snapshot{
			Inputs: in,
			Quote: models.PriceQuote{
				Spot:       in.Spot,
				Strike:     in.Strike,
				Maturity:   in.Maturity,
				Rate:       in.Rate,
				Volatility: in.Volatility,
				Call:       quote.Call,
				Put:        quote.Put,
			},
		}

		fmt.Println("💰 European Option Quote")
		fmt.Println()
		fmt.Print(render.Summary(snap))
		return nil
	},
}

func init() {
	priceCmd.Flags().Float64("spot", 0, "underlying price")
	priceCmd.Flags().Float64("strike", 0, "exercise price")
	priceCmd.Flags().Float64("maturity", 0, "time to expiry in years")
	priceCmd.Flags().Float64("rate", 0, "risk-free rate as a decimal (0.05 = 5%)")
	priceCmd.Flags().Float64("vol", 0, "volatility as a decimal (0.2 = 20%)")
}

// --- Surface Command ---

var surfaceCmd = &cobra.Command{
	Use:   "surface",
	Short: "Evaluate and render call/put price surfaces",
	Long: `Evaluate call and put prices over a spot × volatility grid and
render both surfaces as terminal heatmaps, shaded red (low) through
yellow to green (high):

  volsurf surface
  volsurf surface --spot-min 50 --spot-max 150 --spot-samples 20
  volsurf surface --workers 4 --no-color`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cfg.DefaultInputs()
		overrideFloat(cmd, "spot", &in.Spot)
		overrideFloat(cmd, "strike", &in.Strike)
		overrideFloat(cmd, "maturity", &in.Maturity)
		overrideFloat(cmd, "rate", &in.Rate)
		overrideFloat(cmd, "vol", &in.Volatility)
		overrideFloat(cmd, "spot-min", &in.SpotMin)
		overrideFloat(cmd, "spot-max", &in.SpotMax)
		overrideInt(cmd, "spot-samples", &in.SpotSamples)
		overrideFloat(cmd, "vol-min", &in.VolMin)
		overrideFloat(cmd, "vol-max", &in.VolMax)
		overrideInt(cmd, "vol-samples", &in.VolSamples)
		overrideInt(cmd, "precision", &in.Precision)

		workers := cfg.Surface.Workers
		overrideInt(cmd, "workers", &workers)

		snap, err := session.New(in, workers).Snapshot()
		if err != nil {
			return err
		}

		noColor, _ := cmd.Flags().GetBool("no-color")
		hm := render.DefaultHeatmapConfig()
		hm.Color = cfg.Display.Color && !noColor
		hm.Precision = in.Precision

		callOnly, _ := cmd.Flags().GetBool("call-only")
		putOnly, _ := cmd.Flags().GetBool("put-only")
		if callOnly && putOnly {
			return fmt.Errorf("--call-only and --put-only are mutually exclusive")
		}

		fmt.Print(render.Summary(snap))
		fmt.Println()

		switch {
		case callOnly:
			hm.Title = "Call Price Surface"
			fmt.Print(render.Heatmap(snap.Surface.Call, snap.Surface.VolLabels, snap.Surface.SpotLabels, hm))
		case putOnly:
			hm.Title = "Put Price Surface"
			fmt.Print(render.Heatmap(snap.Surface.Put, snap.Surface.VolLabels, snap.Surface.SpotLabels, hm))
		default:
			fmt.Print(render.Surfaces(snap, hm))
		}
		return nil
	},
}

func init() {
	surfaceCmd.Flags().Float64("spot", 0, "underlying price for the headline quote")
	surfaceCmd.Flags().Float64("strike", 0, "exercise price")
	surfaceCmd.Flags().Float64("maturity", 0, "time to expiry in years")
	surfaceCmd.Flags().Float64("rate", 0, "risk-free rate as a decimal")
	surfaceCmd.Flags().Float64("vol", 0, "volatility for the headline quote")
	surfaceCmd.Flags().Float64("spot-min", 0, "spot axis lower bound")
	surfaceCmd.Flags().Float64("spot-max", 0, "spot axis upper bound")
	surfaceCmd.Flags().Int("spot-samples", 0, "number of spot axis samples")
	surfaceCmd.Flags().Float64("vol-min", 0, "volatility axis lower bound")
	surfaceCmd.Flags().Float64("vol-max", 0, "volatility axis upper bound")
	surfaceCmd.Flags().Int("vol-samples", 0, "number of volatility axis samples")
	surfaceCmd.Flags().Int("precision", 0, "decimals per heatmap cell")
	surfaceCmd.Flags().Int("workers", 0, "grid rows evaluated concurrently")
	surfaceCmd.Flags().Bool("no-color", false, "disable ANSI heatmap shading")
	surfaceCmd.Flags().Bool("call-only", false, "render only the call surface")
	surfaceCmd.Flags().Bool("put-only", false, "render only the put surface")
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		host := cfg.API.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.API.Port
		overrideInt(cmd, "port", &port)

		srv := api.NewServer(cfg)
		if noUI, _ := cmd.Flags().GetBool("no-ui"); noUI {
			srv.SetServeUI(false)
		}

		addr := fmt.Sprintf("%s:%d", host, port)
		fmt.Printf("🌐 Starting volsurf server on %s\n", addr)
		fmt.Printf("   REST:      http://%s/api/v1\n", addr)
		fmt.Printf("   WebSocket: ws://%s/api/v1/ws\n", addr)
		return srv.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "bind address override")
	serveCmd.Flags().Int("port", 0, "port override")
	serveCmd.Flags().Bool("no-ui", false, "serve the API without the embedded browser UI")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show version and effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  volsurf — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version: %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Default contract:")
		fmt.Printf("    Spot:        %.2f\n", cfg.Pricing.Spot)
		fmt.Printf("    Strike:      %.2f\n", cfg.Pricing.Strike)
		fmt.Printf("    Maturity:    %s\n", utils.FormatYears(cfg.Pricing.Maturity))
		fmt.Printf("    Rate:        %s\n", utils.FormatPct(cfg.Pricing.Rate))
		fmt.Printf("    Volatility:  %s\n", utils.FormatPct(cfg.Pricing.Volatility))
		fmt.Println()

		fmt.Println("  Surface grid:")
		fmt.Printf("    Spot axis:   %.2f to %.2f, %d samples\n",
			cfg.Surface.SpotMin, cfg.Surface.SpotMax, cfg.Surface.SpotSamples)
		fmt.Printf("    Vol axis:    %s to %s, %d samples\n",
			utils.FormatPct(cfg.Surface.VolMin), utils.FormatPct(cfg.Surface.VolMax), cfg.Surface.VolSamples)
		fmt.Printf("    Workers:     %d\n", cfg.Surface.Workers)
		fmt.Println()

		fmt.Println("  Runtime:")
		fmt.Printf("    Precision:   %d\n", cfg.Display.Precision)
		fmt.Printf("    Color:       %v\n", cfg.Display.Color)
		fmt.Printf("    API Server:  %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Logging:     %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
