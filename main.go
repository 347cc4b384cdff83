package main

import (
	"fmt"
	"os"

	"github.com/soocke/gaze-go/cli"
	"github.com/soocke/gaze-go/ui"
)

func main() {
	cli.SetUILauncher(ui.Launch)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
