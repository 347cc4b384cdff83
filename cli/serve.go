package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soocke/gaze-go/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine behind the websocket sensor bridge",
	Long: `Starts the gaze engine and accepts landmark, pose, quality and command
frames from a face-tracking client over a websocket. Engine events are
streamed back to every connected client.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyBridgeFlags(cmd, cfg)
		logger, err := loggerFor(cfg)
		if err != nil {
			return err
		}

		c, err := app.BuildContainer(cfg, logger, app.Options{})
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addBridgeFlags(serveCmd)
}
