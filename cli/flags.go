package cli

import (
	"github.com/spf13/cobra"

	"github.com/soocke/gaze-go/config"
)

// addBridgeFlags registers the flags shared by commands that run the
// sensor bridge.
func addBridgeFlags(cmd *cobra.Command) {
	cmd.Flags().String("listen", "", "address to listen on (e.g. '127.0.0.1:8765' or '8765')")
	cmd.Flags().Bool("cors", false, "accept websocket clients from any origin")
	cmd.Flags().Bool("os-cursor", false, "mirror the gaze cursor onto the OS pointer and click on blinks")
	cmd.Flags().Float64("max-frame-rate", 0, "sensor frames accepted per second per client (0 = unlimited)")
}

// applyBridgeFlags copies explicitly set bridge flags into cfg.
func applyBridgeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	// Get* cannot fail for defined flags
	if flags.Changed("listen") {
		cfg.ListenAddr, _ = flags.GetString("listen")
	}
	if flags.Changed("cors") {
		cfg.EnableCORS, _ = flags.GetBool("cors")
	}
	if flags.Changed("os-cursor") {
		cfg.OSCursor, _ = flags.GetBool("os-cursor")
	}
	if flags.Changed("max-frame-rate") {
		cfg.MaxFrameRate, _ = flags.GetFloat64("max-frame-rate")
	}
}
