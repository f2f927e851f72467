package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/gekko3d/ember"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "ember.yaml", "Path to the YAML config")
	assetsDir := flag.String("assets", "assets", "Directory with material images")
	debug := flag.Bool("debug", false, "Enable debug mode (profiler overlay, debug logging)")
	flag.Parse()

	app := ember.NewAppBuilder().
		UseModule(
			ember.LoggingModule{Prefix: "ember", Debug: *debug},
			ember.ConfigModule{Path: *configPath, Debug: *debug},
			ember.ClockModule{},
			ember.EmberModule{Assets: os.DirFS(*assetsDir)},
			ember.InputModule{},
			ember.CameraModule{},
			ember.SceneModule{},
			ember.InspectorModule{},
			ember.ControlsModule{},
			ember.OverlayModule{},
		).
		Build()

	app.Run()
}
