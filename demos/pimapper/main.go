// Pimapper runs the projection mapper on a data directory, or inspects and
// edits its layout file from the terminal.
//
//	pimapper run --data ./data --fullscreen --watch
//	pimapper inspect ./data/surfaces.xml
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pimapper"
)

var (
	dataRoot   string
	layoutFile string
	width      int
	height     int
	fullscreen bool
	debug      bool
	watch      bool
	showInfo   bool
	mode       string
	scriptPath string
)

func main() {
	root := &cobra.Command{
		Use:   "pimapper",
		Short: "Live projection mapping of images and videos",
		Long: `pimapper - live projection mapping

Projects images and videos onto editable triangles and quads.

Keys:
  1-4        Presentation, texture, projection and source modes
  t / q      Add triangle / quad
  Delete     Remove the selected surface
  s          Save the layout
  i          Toggle the info overlay
  Arrows     Nudge the selection (Shift for 10px)
  f          Toggle fullscreen`,
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Open the mapper window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	runCmd.Flags().StringVar(&dataRoot, "data", ".", "Data root holding sources/ and the layout")
	runCmd.Flags().StringVar(&layoutFile, "layout", pimapper.DefaultLayoutFile, "Layout file, relative to the data root")
	runCmd.Flags().IntVar(&width, "width", 1280, "Window width")
	runCmd.Flags().IntVar(&height, "height", 720, "Window height")
	runCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Start fullscreen")
	runCmd.Flags().BoolVar(&debug, "debug", false, "Print frame stats and reference checks")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Watch the media directories for new files")
	runCmd.Flags().BoolVar(&showInfo, "info", false, "Start with the info overlay")
	runCmd.Flags().StringVar(&mode, "mode", "none", "Initial mode: none, texture, projection or source")
	runCmd.Flags().StringVar(&scriptPath, "script", "", "JSON test script to run")

	inspectCmd := &cobra.Command{
		Use:   "inspect <layout.xml>",
		Short: "Browse and edit a layout file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}

	root.AddCommand(runCmd, inspectCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	initial, err := pimapper.ParseMode(mode)
	if err != nil {
		return err
	}
	m, err := pimapper.New(pimapper.Config{
		DataRoot:    dataRoot,
		LayoutFile:  layoutFile,
		Width:       width,
		Height:      height,
		Logger:      log.New(os.Stderr, "pimapper: ", log.LstdFlags),
		Watch:       watch,
		Debug:       debug,
		ShowInfo:    showInfo,
		InitialMode: initial,
	})
	if err != nil {
		return err
	}

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			m.Close()
			return fmt.Errorf("read script: %w", err)
		}
		r, err := pimapper.LoadTestScript(data)
		if err != nil {
			m.Close()
			return err
		}
		m.SetTestRunner(r)
	}

	return pimapper.Run(m, pimapper.RunConfig{
		Title:      "pimapper",
		Width:      width,
		Height:     height,
		Fullscreen: fullscreen,
		Resizable:  true,
	})
}
