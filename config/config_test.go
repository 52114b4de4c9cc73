package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inspection-station/internal/domain/entity"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, CameraStill, cfg.Camera.Source)
	require.Equal(t, 320, cfg.Display.Width)
	require.Equal(t, 240, cfg.Display.Height)
	require.True(t, cfg.Display.Invert)
	require.Equal(t, entity.CaptureConfig{Name: "detection", Width: 640, Height: 480}, cfg.Capture.Detection)
	require.Equal(t, 27, cfg.Pins.Previous)
	require.Equal(t, 17, cfg.Pins.Next)
	require.Equal(t, 22, cfg.Pins.Confirm)
	require.Equal(t, 23, cfg.Pins.Trigger)
	require.Equal(t, 26, cfg.Pins.Control)
	require.Equal(t, 300*time.Millisecond, cfg.Pins.DebounceNext)
	require.Equal(t, [3]uint8{20, 100, 100}, cfg.Vision.Target.Lower)
	require.Equal(t, [3]uint8{30, 255, 255}, cfg.Vision.Target.Upper)
	require.Equal(t, 5, cfg.Vision.KernelSize)
	require.Equal(t, 50.0, cfg.Vision.MinArea)
	require.Equal(t, 2, cfg.Vision.ExpectedRegions)
	require.Equal(t, 700*time.Millisecond, cfg.Timing.SelectDelay)
	require.Equal(t, 10, cfg.Timing.ProductionCycles)
	require.Equal(t, 2*time.Second, cfg.Timing.ProductionHold)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CAMERA_SOURCE", "device")
	t.Setenv("CAMERA_DEVICE", "2")
	t.Setenv("DISPLAY_SIZE", "480x320")
	t.Setenv("DISPLAY_INVERT", "false")
	t.Setenv("TARGET_HSV_LOWER", "90, 50, 50")
	t.Setenv("MIN_REGION_AREA", "12.5")
	t.Setenv("TRIGGER_BOUNCE", "50ms")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, CameraDevice, cfg.Camera.Source)
	require.Equal(t, 2, cfg.Camera.Device)
	require.Equal(t, 480, cfg.Display.Width)
	require.Equal(t, 320, cfg.Display.Height)
	require.False(t, cfg.Display.Invert)
	require.Equal(t, [3]uint8{90, 50, 50}, cfg.Vision.Target.Lower)
	require.Equal(t, 12.5, cfg.Vision.MinArea)
	require.Equal(t, 50*time.Millisecond, cfg.Pins.TriggerBounce)
}

func TestLoad_MalformedValues(t *testing.T) {
	cases := map[string]string{
		"PIN_TRIGGER":       "twenty",
		"DISPLAY_SIZE":      "320",
		"DETECTION_SIZE":    "0x480",
		"TARGET_HSV_UPPER":  "30,255",
		"TARGET_HSV_LOWER":  "20,100,300",
		"DEBOUNCE_OK":       "fast",
		"SELECT_DELAY":      "-1s",
		"DISPLAY_INVERT":    "maybe",
		"CAMERA_SOURCE":     "network",
		"PRODUCTION_CYCLES": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".env", "EXPECTED_REGIONS=3\n")
	t.Cleanup(func() { _ = os.Unsetenv("EXPECTED_REGIONS") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Vision.ExpectedRegions)
}
