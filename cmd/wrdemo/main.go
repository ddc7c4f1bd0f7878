// Command wrdemo builds one of the reference scenes, renders it with the
// software compositor and writes a PNG. With --listen it keeps serving the
// scene through the inspector until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/jessevdk/go-flags"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/internal/inspect"
	"github.com/gogpu/wr/raster"
)

var background = wr.NewColorF(0.5, 0.5, 0.5, 1)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Println(ferr.Message)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level, err := cfg.level()
	if err != nil {
		fmt.Fprintln(os.Stderr, "wrdemo: log level:", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	wr.SetLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("wrdemo failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log *slog.Logger) error {
	api := wr.NewAPI(
		wr.WithDeviceSize(cfg.Width, cfg.Height),
		wr.WithFontParser(cfg.FontParser),
		wr.WithNotifier(wr.NotifierFunc(func(p wr.PipelineID, e wr.Epoch) {
			log.Info("new frame ready", "pipeline", p, "epoch", e)
		})),
	)

	scene, err := publish(api, cfg)
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := writePNG(api, scene, cfg); err != nil {
			return err
		}
		log.Info("frame written", "output", cfg.Output, "width", cfg.Width, "height", cfg.Height)
	}

	if cfg.Listen == "" {
		return nil
	}
	return serve(ctx, cfg.Listen, inspect.NewRouter(api), log)
}

// publish builds the configured scene and submits it as epoch 0 of
// pipeline 0.
func publish(api *wr.API, cfg config) (*wr.Scene, error) {
	var (
		root *wr.StackingContext
		err  error
	)
	switch cfg.Scene {
	case "test2":
		root, err = buildTest2(api)
	default:
		var a assets
		if a, err = loadAssets(cfg); err != nil {
			return nil, err
		}
		root, err = buildTest1(api, a, cfg.Width, cfg.Height)
	}
	if err != nil {
		return nil, fmt.Errorf("wrdemo: build %s: %w", cfg.Scene, err)
	}
	if err := api.SetRootStackingContext(root, background, 0, 0); err != nil {
		return nil, err
	}
	return api.CurrentScene(0), nil
}

func writePNG(api *wr.API, scene *wr.Scene, cfg config) error {
	surf, err := raster.Render(scene, cfg.Width, cfg.Height, raster.WithImages(api))
	if err != nil {
		return err
	}
	img, err := surf.RGBA()
	if err != nil {
		return err
	}
	return imgio.Save(cfg.Output, img, imgio.PNGEncoder())
}

func serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.Info("inspector listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}
