// Command presenter opens a window and draws a triangle into it every frame
// through a Vulkan swapchain.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/config"
	"github.com/vkngwrapper/presenter/internal/frametime"
	"github.com/vkngwrapper/presenter/internal/render"
	"github.com/vkngwrapper/presenter/internal/vkng"
	"github.com/vkngwrapper/presenter/internal/window"
)

func run(cfg config.Config) error {
	shaders, err := render.LoadShaderSet(os.DirFS(cfg.ShaderDir), cfg.VertexShader, cfg.FragmentShader)
	if err != nil {
		return errors.WithHint(err, "compile shaders to SPIR-V and pass -shader-dir, -vert and -frag")
	}

	win, err := window.Open(cfg.AppName, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer win.Close()

	rt, err := vkng.NewRuntime(win.ProcAddr())
	if err != nil {
		return err
	}

	opts := render.Options{
		Context: render.ContextOptions{
			ApplicationName: cfg.AppName,
			EngineName:      "No Engine",
			Layers:          cfg.InstanceLayers(),
		},
		Chain:      render.ChainOptions{ImageCount: cfg.ImageCount},
		Shaders:    shaders,
		ClearColor: cfg.ClearColor,
	}
	if cfg.Validation {
		opts.Context.Debug = render.LogValidation
	}

	renderer, err := render.NewRenderer(rt, vkng.SDLSurface{Window: win.Handle()}, opts)
	if err != nil {
		return err
	}

	err = loop(cfg, win, renderer)
	return errors.CombineErrors(err, renderer.Close())
}

func loop(cfg config.Config, win *window.Window, renderer *render.Renderer) error {
	var counter *frametime.Counter
	if cfg.StatsInterval > 0 {
		counter = frametime.New(cfg.StatsInterval)
	}

	for win.Pump() {
		if win.Resized() {
			renderer.Invalidate()
		}
		if !win.Active() {
			if counter != nil {
				counter.Skip()
			}
			win.Idle()
			continue
		}

		if err := renderer.DrawFrame(); err != nil {
			return err
		}

		if counter == nil {
			continue
		}
		if sample, ok := counter.Tick(); ok {
			stats := renderer.Stats()
			slog.Info("frame stats",
				"fps", sample.FPS(),
				"mean", sample.Mean(),
				"min", sample.Min,
				"max", sample.Max,
				"submitted", stats.Submitted,
				"dropped", stats.Dropped,
				"rebuilds", stats.Rebuilds)
		}
	}
	return nil
}

func main() {
	runtime.LockOSThread()

	cfg := config.Default()
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("%+v\n", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	render.SetLogger(logger)

	if err := run(cfg); err != nil {
		log.Fatalf("%+v\n", err)
	}
}
