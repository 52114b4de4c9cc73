package camera

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"inspection-station/internal/domain/entity"
)

var (
	preview   = entity.CaptureConfig{Name: "preview", Width: 32, Height: 24}
	detection = entity.CaptureConfig{Name: "detection", Width: 64, Height: 48}
)

func yellowImage(w, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{R: 255, G: 210, B: 0, A: 255})
}

func TestStill_CaptureRequiresStart(t *testing.T) {
	cam := NewStillFromImage(yellowImage(8, 8), preview)

	_, err := cam.Capture(context.Background())
	require.ErrorIs(t, err, ErrNotStarted)

	require.NoError(t, cam.Start())
	f, err := cam.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, 32, f.Width)
	require.Equal(t, 24, f.Height)
	require.Equal(t, entity.EncodingRGB, f.Encoding)
	require.NoError(t, f.Validate())

	require.NoError(t, cam.Stop())
	_, err = cam.Capture(context.Background())
	require.ErrorIs(t, err, ErrNotStarted)
}

func TestStill_ConfigureWhileRunning(t *testing.T) {
	cam := NewStillFromImage(yellowImage(8, 8), preview)
	require.NoError(t, cam.Start())

	require.ErrorIs(t, cam.Configure(detection), ErrRunning)
	require.Equal(t, preview, cam.Config())
}

func TestStill_ConfigureResizes(t *testing.T) {
	cam := NewStillFromImage(yellowImage(8, 8), preview)
	require.NoError(t, cam.Configure(detection))
	require.NoError(t, cam.Start())

	f, err := cam.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, 64, f.Width)
	require.Equal(t, 48, f.Height)

	r, g, b := f.RGB(10, 10)
	require.Equal(t, [3]uint8{255, 210, 0}, [3]uint8{r, g, b})
}

func TestStill_ConfigureRejectsEmptySize(t *testing.T) {
	cam := NewStillFromImage(yellowImage(8, 8), preview)
	require.Error(t, cam.Configure(entity.CaptureConfig{Name: "broken"}))
}

func TestStill_CaptureReturnsCopy(t *testing.T) {
	cam := NewStillFromImage(yellowImage(8, 8), preview)
	require.NoError(t, cam.Start())

	f, err := cam.Capture(context.Background())
	require.NoError(t, err)
	f.SetRGB(0, 0, 1, 2, 3)

	g, err := cam.Capture(context.Background())
	require.NoError(t, err)
	r, gg, b := g.RGB(0, 0)
	require.Equal(t, [3]uint8{255, 210, 0}, [3]uint8{r, gg, b})
}

func TestStill_CaptureCancelled(t *testing.T) {
	cam := NewStillFromImage(yellowImage(8, 8), preview)
	require.NoError(t, cam.Start())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cam.Capture(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStill_OpensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	require.NoError(t, imaging.Save(yellowImage(16, 12), path))

	cam := NewStill(path, preview)
	require.NoError(t, cam.Start())
	f, err := cam.Capture(context.Background())
	require.NoError(t, err)
	require.Equal(t, 32, f.Width)
}

func TestStill_MissingFile(t *testing.T) {
	cam := NewStill(filepath.Join(t.TempDir(), "missing.png"), preview)
	require.Error(t, cam.Start())
}
