package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/soocke/gaze-go/app"
)

// UILauncher opens the desktop window for c and blocks until it is closed.
type UILauncher func(ctx context.Context, c *app.Container, cfgPath string, width, height int)

var (
	launchUI UILauncher
	uiWidth  int
	uiHeight int
)

// SetUILauncher installs the desktop window. main links the Tk runtime in
// so headless commands and tests never load it.
func SetUILauncher(l UILauncher) { launchUI = l }

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the desktop demo window",
	Long: `Opens a window with engine status, a grid of demo targets reacting to
blinks, long blinks and hover, and a panel for editing tunables. The
sensor bridge runs in the background while the window is open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if launchUI == nil {
			return errors.New("desktop ui is not available in this build")
		}
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

		launchUI(cmd.Context(), c, configPath, uiWidth, uiHeight)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
	addBridgeFlags(uiCmd)
	uiCmd.Flags().IntVar(&uiWidth, "width", 900, "window width")
	uiCmd.Flags().IntVar(&uiHeight, "height", 700, "window height")
}
