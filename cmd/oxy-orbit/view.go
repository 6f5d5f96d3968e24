package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"github.com/Carmen-Shannon/oxy-orbit/engine/controls"
	"github.com/Carmen-Shannon/oxy-orbit/engine/loader"
	"github.com/Carmen-Shannon/oxy-orbit/engine/scene"
	"github.com/Carmen-Shannon/oxy-orbit/engine/window"
	"github.com/Carmen-Shannon/oxy-orbit/internal/cli"
	"github.com/Carmen-Shannon/oxy-orbit/internal/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

func newViewCmd(app *cli.App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "view [model.gltf|model.glb]...",
		Short: "Open a window and orbit the camera with mouse, wheel and arrow keys",
		Long: `View opens a window with a live orbit controller. Models given as arguments
are framed on start.

Keys:
  R       reset to the saved pose
  Space   frame the loaded models
  A       toggle auto-rotate
  P / O   switch to perspective / orthographic
  Esc     quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), app, args, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "reload controller switches when the config file changes")
	return cmd
}

func runView(ctx context.Context, app *cli.App, models []string, watch bool) error {
	cfg := app.Config
	logger := app.Logger
	if err := cfg.Validate(); err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	width, height := win.Size()
	cam := cfg.Camera.NewCamera(aspectOf(width, height))

	options := append(cfg.ControllerOptions(), controls.WithLogger(logger))
	ctrl := controls.NewOrbitController(cam, win, options...)
	sc := scene.NewScene("view", cam, scene.WithController(ctrl), scene.WithActive(true))
	defer sc.Dispose()

	l := loader.NewLoader(loader.BackendTypeGLTF, loader.WithLogger(logger))
	bounds, err := l.LoadAll(models)
	l.Close()
	if err != nil {
		return err
	}
	for i, path := range models {
		sc.AddModel(filepath.Base(path), bounds[i])
	}
	if sc.Count() > 0 {
		sc.Focus()
	}

	for _, t := range []controls.EventType{controls.EventStart, controls.EventEnd} {
		ctrl.AddEventListener(t, func(e controls.Event) {
			logger.Debug().Str("event", e.Type.String()).Str("mode", e.Mode.String()).Msg("gesture")
		})
	}

	autoRotate := cfg.Controls.AutoRotate
	win.Subscribe(controls.InputHandler{
		OnKeyDown: func(e controls.KeyEvent) {
			switch e.Key {
			case common.KeyR:
				ctrl.Reset()
			case common.KeySpace:
				sc.Focus()
			case common.KeyA:
				autoRotate = !autoRotate
				ctrl.SetAutoRotate(autoRotate)
			case common.KeyP, common.KeyO:
				w, h := win.Size()
				cam.SetProjection(projectionFor(cfg.Camera, e.Key == common.KeyO, aspectOf(w, h)))
				ctrl.Update()
			}
		},
	})

	// reloads arrive on the watcher goroutine; the controller is only touched from the frame loop
	pending := make(chan *config.Config, 1)
	if watch {
		watcher, err := config.NewWatcher(app.ConfigPath, 100*time.Millisecond, func(c *config.Config) {
			select {
			case <-pending:
			default:
			}
			pending <- c
		}, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("config watch disabled")
		} else {
			defer watcher.Close()
		}
	}

	eng := engine.NewEngine(
		engine.WithHost(win),
		engine.WithScene(0, sc),
		engine.WithFrameLimit(cfg.Window.FrameLimit),
		engine.WithProfiling(cfg.Window.Profiling),
		engine.WithLogger(logger),
	)
	eng.SetFrameCallback(func(_ time.Duration, moved bool) {
		select {
		case c := <-pending:
			c.Controls.ApplyLive(ctrl)
			autoRotate = c.Controls.AutoRotate
		default:
		}
		if !moved {
			return
		}
		win.SetTitle(fmt.Sprintf("%s | polar %.1f° azimuth %.1f° distance %.2f",
			cfg.Window.Title,
			mgl64.RadToDeg(ctrl.PolarAngle()),
			mgl64.RadToDeg(ctrl.AzimuthalAngle()),
			cam.Position().Sub(ctrl.Target()).Len()))
		if logger.Debug().Enabled() {
			p := cam.Position()
			logger.Debug().
				Floats64("position", p[:]).
				Strs("visible", sc.VisibleModels()).
				Msg("camera moved")
		}
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("models", sc.Count()).Str("config", app.ConfigPath).Msg("viewer started")
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func aspectOf(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

func projectionFor(c config.CameraConfig, orthographic bool, aspect float64) camera.Projection {
	if orthographic {
		halfH := c.OrthoHeight / 2
		halfW := halfH * aspect
		return camera.Orthographic{Left: -halfW, Right: halfW, Top: halfH, Bottom: -halfH, Near: c.Near, Far: c.Far}
	}
	return camera.Perspective{FovY: mgl64.DegToRad(c.FovDegrees), Aspect: aspect, Near: c.Near, Far: c.Far}
}
