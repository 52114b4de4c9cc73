package container

import (
	"fmt"

	"inspection-station/config"
	app "inspection-station/internal/application"
	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
	"inspection-station/internal/infrastructure/render"
	"inspection-station/internal/infrastructure/vision"
)

// Hardware адаптеры, которые создаёт вызывающий
type Hardware struct {
	Outputs port.OutputDriver
	Inputs  port.InputReader
	Camera  port.Camera
	Display port.Display
}

type Container struct {
	Bus      *app.InputEventBus
	Latch    *app.DecisionLatch
	Pipeline *vision.Pipeline
	Screen   *app.ScreenStateMachine
}

func New(cfg *config.Config, hw Hardware) (*Container, error) {
	pipeline, err := vision.NewPipeline(vision.Config{
		Target:     cfg.Vision.Target,
		KernelSize: cfg.Vision.KernelSize,
		MinArea:    cfg.Vision.MinArea,
	})
	if err != nil {
		return nil, fmt.Errorf("vision pipeline: %w", err)
	}

	bus := app.NewInputEventBus(hw.Inputs, ButtonLines(cfg.Pins))
	latch := app.NewDecisionLatch(hw.Outputs, cfg.Vision.ExpectedRegions)
	screen := app.Screen{
		Display:  hw.Display,
		Renderer: render.New(cfg.Display.Width, cfg.Display.Height, cfg.Display.Invert),
	}

	loops := map[entity.Mode]app.ModeLoop{
		entity.ModeDetection: &app.DetectionMode{
			Camera:   hw.Camera,
			Capture:  cfg.Capture.Detection,
			Detector: pipeline,
			Latch:    latch,
			Events:   bus,
			Screen:   screen,
			Interval: cfg.Timing.DetectionInterval,
		},
		entity.ModeCalibration: &app.CalibrationMode{
			Camera:   hw.Camera,
			Capture:  cfg.Capture.Calibration,
			Events:   bus,
			Screen:   screen,
			Interval: cfg.Timing.CalibrationInterval,
		},
		entity.ModeProduction: &app.ProductionMode{
			Events:   bus,
			Screen:   screen,
			Cycles:   cfg.Timing.ProductionCycles,
			Interval: cfg.Timing.ProductionInterval,
			Hold:     cfg.Timing.ProductionHold,
		},
	}

	sm, err := app.NewScreenStateMachine(bus, screen, latch, entity.DefaultMenu(), loops, app.ScreenConfig{
		Idle:        cfg.Timing.MenuInterval,
		SelectDelay: cfg.Timing.SelectDelay,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Bus:      bus,
		Latch:    latch,
		Pipeline: pipeline,
		Screen:   sm,
	}, nil
}

// ButtonLines описание кнопок для опроса шиной: нажатие читается как низкий уровень
func ButtonLines(p config.PinConfig) []app.ButtonLine {
	return []app.ButtonLine{
		{Event: entity.ButtonPrevious, Pin: p.Previous, Debounce: p.DebouncePrevious, ActiveLow: true},
		{Event: entity.ButtonNext, Pin: p.Next, Debounce: p.DebounceNext, ActiveLow: true},
		{Event: entity.ButtonConfirm, Pin: p.Confirm, Debounce: p.DebounceConfirm, ActiveLow: true},
	}
}
