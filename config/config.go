// Package config читает настройки станции из окружения и .env файла.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"inspection-station/internal/domain/entity"
)

// Источники кадров
const (
	CameraStill  = "still"
	CameraDevice = "device"
)

type Config struct {
	LogLevel string

	Camera  CameraConfig
	Display DisplayConfig
	Capture CaptureConfig
	Pins    PinConfig
	Vision  VisionConfig
	Timing  TimingConfig
}

type CameraConfig struct {
	Source    string // still или device
	Device    int    // номер устройства V4L
	StillPath string // снимок для источника still
}

type DisplayConfig struct {
	OutputPath string
	Width      int
	Height     int
	Invert     bool // инвертировать превью калибровки
}

// CaptureConfig размеры захвата по режимам
type CaptureConfig struct {
	Preview     entity.CaptureConfig
	Detection   entity.CaptureConfig
	Calibration entity.CaptureConfig
}

// PinConfig номера линий BCM и интервалы антидребезга
type PinConfig struct {
	Previous int
	Next     int
	Confirm  int
	Trigger  int

	Control int
	Green   int
	Red     int

	DebouncePrevious time.Duration
	DebounceNext     time.Duration
	DebounceConfirm  time.Duration
	TriggerBounce    time.Duration
}

type VisionConfig struct {
	Target          entity.HSVRange
	KernelSize      int
	MinArea         float64
	ExpectedRegions int
}

type TimingConfig struct {
	MenuInterval        time.Duration
	DetectionInterval   time.Duration
	CalibrationInterval time.Duration
	SelectDelay         time.Duration

	ProductionCycles   int
	ProductionInterval time.Duration
	ProductionHold     time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	r := &reader{}
	cfg := &Config{
		LogLevel: r.str("LOG_LEVEL", "info"),
		Camera: CameraConfig{
			Source:    r.str("CAMERA_SOURCE", CameraStill),
			Device:    r.integer("CAMERA_DEVICE", 0),
			StillPath: r.str("CAMERA_STILL_PATH", "testdata/sample.png"),
		},
		Display: DisplayConfig{
			OutputPath: r.str("DISPLAY_OUTPUT_PATH", "station_display.png"),
			Invert:     r.boolean("DISPLAY_INVERT", true),
		},
		Capture: CaptureConfig{
			Preview:     r.capture("PREVIEW_SIZE", "preview", "320x240"),
			Detection:   r.capture("DETECTION_SIZE", "detection", "640x480"),
			Calibration: r.capture("CALIBRATION_SIZE", "calibration", "320x240"),
		},
		Pins: PinConfig{
			Previous:         r.integer("PIN_BTN_PREV", 27),
			Next:             r.integer("PIN_BTN_NEXT", 17),
			Confirm:          r.integer("PIN_BTN_OK", 22),
			Trigger:          r.integer("PIN_TRIGGER", 23),
			Control:          r.integer("PIN_CTRL", 26),
			Green:            r.integer("PIN_GREEN", 5),
			Red:              r.integer("PIN_RED", 6),
			DebouncePrevious: r.duration("DEBOUNCE_PREV", 200*time.Millisecond),
			DebounceNext:     r.duration("DEBOUNCE_NEXT", 300*time.Millisecond),
			DebounceConfirm:  r.duration("DEBOUNCE_OK", 300*time.Millisecond),
			TriggerBounce:    r.duration("TRIGGER_BOUNCE", 200*time.Millisecond),
		},
		Vision: VisionConfig{
			Target: entity.HSVRange{
				Lower: r.triple("TARGET_HSV_LOWER", "20,100,100"),
				Upper: r.triple("TARGET_HSV_UPPER", "30,255,255"),
			},
			KernelSize:      r.integer("MORPH_KERNEL", 5),
			MinArea:         r.float("MIN_REGION_AREA", 50),
			ExpectedRegions: r.integer("EXPECTED_REGIONS", 2),
		},
		Timing: TimingConfig{
			MenuInterval:        r.duration("MENU_INTERVAL", 50*time.Millisecond),
			DetectionInterval:   r.duration("DETECTION_INTERVAL", 30*time.Millisecond),
			CalibrationInterval: r.duration("CALIBRATION_INTERVAL", 30*time.Millisecond),
			SelectDelay:         r.duration("SELECT_DELAY", 700*time.Millisecond),
			ProductionCycles:    r.integer("PRODUCTION_CYCLES", 10),
			ProductionInterval:  r.duration("PRODUCTION_INTERVAL", 500*time.Millisecond),
			ProductionHold:      r.duration("PRODUCTION_HOLD", 2*time.Second),
		},
	}
	cfg.Display.Width, cfg.Display.Height = r.size("DISPLAY_SIZE", "320x240")

	if r.err != nil {
		return nil, r.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Camera.Source != CameraStill && c.Camera.Source != CameraDevice {
		errs = append(errs, fmt.Errorf("CAMERA_SOURCE: want %q or %q, got %q", CameraStill, CameraDevice, c.Camera.Source))
	}
	if c.Vision.ExpectedRegions < 0 {
		errs = append(errs, fmt.Errorf("EXPECTED_REGIONS: must not be negative, got %d", c.Vision.ExpectedRegions))
	}
	if c.Timing.ProductionCycles < 1 {
		errs = append(errs, fmt.Errorf("PRODUCTION_CYCLES: must be positive, got %d", c.Timing.ProductionCycles))
	}
	return errors.Join(errs...)
}

// reader читает переменные, накапливая ошибки разбора
type reader struct {
	err error
}

func (r *reader) fail(key, raw string, err error) {
	r.err = errors.Join(r.err, fmt.Errorf("%s=%q: %w", key, raw, err))
}

func (r *reader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok {
		return v
	}
	return def
}

func (r *reader) integer(key string, def int) int {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return f
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	if d < 0 {
		r.fail(key, v, errors.New("must not be negative"))
		return def
	}
	return d
}

// size разбирает WxH
func (r *reader) size(key, def string) (int, int) {
	v := r.str(key, def)
	w, h, err := parseSize(v)
	if err != nil {
		r.fail(key, v, err)
		w, h, _ = parseSize(def)
	}
	return w, h
}

func (r *reader) capture(key, name, def string) entity.CaptureConfig {
	w, h := r.size(key, def)
	return entity.CaptureConfig{Name: name, Width: w, Height: h}
}

// triple разбирает три числа 0..255 через запятую
func (r *reader) triple(key, def string) [3]uint8 {
	v := r.str(key, def)
	t, err := parseTriple(v)
	if err != nil {
		r.fail(key, v, err)
		t, _ = parseTriple(def)
	}
	return t
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.New("want WIDTHxHEIGHT")
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("size must be positive")
	}
	return w, h, nil
}

func parseTriple(s string) ([3]uint8, error) {
	var out [3]uint8
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, errors.New("want three comma separated values")
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return out, err
		}
		out[i] = uint8(n)
	}
	return out, nil
}
