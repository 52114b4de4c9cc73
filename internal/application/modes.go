package app

import (
	"context"
	"image"
	"log/slog"
	"time"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
	"inspection-station/internal/log"
)

// ModeLoop цикл одного экрана. Run возвращается, когда оператор нажал Previous,
// цикл закончился сам или отменён контекст.
type ModeLoop interface {
	Run(ctx context.Context) error
}

// Screen то, что нужно циклам для вывода на экран
type Screen struct {
	Display  port.Display
	Renderer port.ViewRenderer
}

func (s Screen) show(logger *slog.Logger, img image.Image) {
	if err := s.Display.Show(img); err != nil {
		logger.Warn("display update failed", "error", err)
	}
}

// DetectionMode ищет области в каждом кадре и фиксирует решение по триггеру
type DetectionMode struct {
	Camera   port.Camera
	Capture  entity.CaptureConfig
	Detector port.RegionDetector
	Latch    *DecisionLatch
	Events   Events
	Screen   Screen
	Interval time.Duration
}

func (m *DetectionMode) Run(ctx context.Context) error {
	logger := log.With("component", "detection")
	logger.Info("entering detection", "capture", m.Capture.String())

	guard := AcquireCapture(m.Camera, m.Capture, logger)
	defer guard.Release()
	defer func() {
		if err := m.Latch.ForceSafe(); err != nil {
			logger.Warn("failed to reset outputs", "error", err)
		}
		logger.Info("exiting detection")
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := m.cycle(ctx, logger); err != nil {
			return err
		}

		if exitRequested(m.Events, logger) {
			return nil
		}
		if err := pause(ctx, m.Interval); err != nil {
			return err
		}
	}
}

// cycle обрабатывает один кадр. Ошибки камеры и конвейера не прерывают режим.
func (m *DetectionMode) cycle(ctx context.Context, logger *slog.Logger) error {
	frame, err := m.Camera.Capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("frame capture failed", "error", err)
		return nil
	}

	regions, err := m.Detector.Detect(ctx, frame)
	if err != nil {
		// триггер остаётся взведённым до следующего удачного кадра
		logger.Warn("inspection failed", "error", err)
		return nil
	}

	m.Latch.MaybeDecide(len(regions), m.Events)

	passed, failed := m.Latch.Totals()
	m.Screen.show(logger, m.Screen.Renderer.Detection(port.DetectionView{
		Frame:   frame,
		Regions: regions,
		Last:    m.Latch.Last(),
		Passed:  passed,
		Failed:  failed,
	}))
	return nil
}

// CalibrationMode показывает живой кадр без обработки
type CalibrationMode struct {
	Camera   port.Camera
	Capture  entity.CaptureConfig
	Events   ButtonSource
	Screen   Screen
	Interval time.Duration
}

func (m *CalibrationMode) Run(ctx context.Context) error {
	logger := log.With("component", "calibration")
	logger.Info("entering calibration", "capture", m.Capture.String())

	guard := AcquireCapture(m.Camera, m.Capture, logger)
	defer guard.Release()
	defer logger.Info("exiting calibration")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := m.Camera.Capture(ctx)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			logger.Warn("frame capture failed", "error", err)
		default:
			m.Screen.show(logger, m.Screen.Renderer.Calibration(frame))
		}

		if exitRequested(m.Events, logger) {
			return nil
		}
		if err := pause(ctx, m.Interval); err != nil {
			return err
		}
	}
}

// ProductionMode прогоняет фиксированное число имитированных циклов без камеры
type ProductionMode struct {
	Events   ButtonSource
	Screen   Screen
	Cycles   int
	Interval time.Duration
	Hold     time.Duration // сколько держать экран завершения
}

func (m *ProductionMode) Run(ctx context.Context) error {
	logger := log.With("component", "production")
	logger.Info("entering production", "cycles", m.Cycles)

	for cycle := 1; cycle <= m.Cycles; cycle++ {
		m.Screen.show(logger, m.Screen.Renderer.Production(cycle, m.Cycles))
		if err := pause(ctx, m.Interval); err != nil {
			return err
		}
		if exitRequested(m.Events, logger) {
			logger.Info("production stopped by operator", "cycle", cycle)
			return nil
		}
	}

	m.Screen.show(logger, m.Screen.Renderer.ProductionDone(m.Cycles))
	logger.Info("production cycle complete", "units", m.Cycles)
	return pause(ctx, m.Hold)
}

// exitRequested забирает одно событие кнопки. Next и Confirm внутри режимов не используются.
func exitRequested(events ButtonSource, logger *slog.Logger) bool {
	ev, ok := events.NextButton()
	if !ok {
		return false
	}
	if ev == entity.ButtonPrevious {
		return true
	}
	logger.Debug("button ignored in mode", "button", ev.String())
	return false
}

// pause спит d или до отмены контекста
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var (
	_ ModeLoop = (*DetectionMode)(nil)
	_ ModeLoop = (*CalibrationMode)(nil)
	_ ModeLoop = (*ProductionMode)(nil)
)
