package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/wr"
	"github.com/gogpu/wr/raster"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "wrdemo.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene = "test2"
width = 640
height = 480
log_level = "debug"
`), 0o600))

	cfg, err = loadConfig([]string{"--config", path, "--width", "320"})
	require.NoError(t, err)
	assert.Equal(t, "test2", cfg.Scene)
	assert.Equal(t, 320, cfg.Width, "flags override the file")
	assert.Equal(t, 480, cfg.Height)
	level, err := cfg.level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("colour = 1\n"), 0o600))
	_, err = loadConfig([]string{"--config", bad})
	assert.ErrorContains(t, err, "unknown keys")

	_, err = loadConfig([]string{"--scene", "test3"})
	assert.Error(t, err)
	_, err = loadConfig([]string{"--height", "0"})
	assert.Error(t, err)
}

func TestPublishTest1(t *testing.T) {
	api := wr.NewAPI()
	cfg := defaultConfig()
	cfg.Width, cfg.Height = 800, 800
	scene, err := publish(api, cfg)
	require.NoError(t, err)
	require.NotNil(t, scene)
	assert.Equal(t, 2, scene.Root().Count())

	prims, err := wr.PaintOrder(scene.Root(), scene)
	require.NoError(t, err)
	require.Len(t, prims, 9)
	assert.Equal(t, wr.KindText, prims[1].Kind())
	assert.Equal(t, wr.KindBorder, prims[5].Kind())

	surf, err := raster.Render(scene, 800, 800, raster.WithImages(api))
	require.NoError(t, err)
	b, g, r, _ := surf.At(150, 650)
	assert.Equal(t, [3]byte{0, 255, 255}, [3]byte{b, g, r}, "yellow child")
	b, g, r, _ = surf.At(320, 550)
	assert.Equal(t, [3]byte{0, 255, 0}, [3]byte{b, g, r}, "opaque green over translucent red")
}

func TestRunTest2WritesPNG(t *testing.T) {
	cfg := defaultConfig()
	cfg.Scene = "test2"
	cfg.Width, cfg.Height = 600, 600
	cfg.Output = filepath.Join(t.TempDir(), "out.png")

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(context.Background(), cfg, log))

	img, err := imgio.Open(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	r, g, b, _ := img.At(300, 300).RGBA()
	assert.Equal(t, [3]uint32{128 * 257, 128 * 257, 128 * 257}, [3]uint32{r, g, b})
	r, g, b, _ = img.At(250, 250).RGBA()
	assert.Equal(t, [3]uint32{0, 128 * 257, 0}, [3]uint32{r, g, b})
}
