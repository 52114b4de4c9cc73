package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/log"
)

// SafeOutputs переводит выходы в безопасное состояние
type SafeOutputs interface {
	ForceSafe() error
}

// ScreenConfig тайминги главного меню
type ScreenConfig struct {
	Idle        time.Duration // пауза между шагами в меню
	SelectDelay time.Duration // пауза перед входом в выбранный режим
}

// ScreenStateMachine владеет текущим экраном и выбранным пунктом меню.
// Все методы вызываются из одной горутины основного цикла.
type ScreenStateMachine struct {
	events  ButtonSource
	screen  Screen
	outputs SafeOutputs
	options []entity.MenuOption
	loops   map[entity.Mode]ModeLoop
	cfg     ScreenConfig
	log     *slog.Logger

	mode     entity.Mode
	selected int
}

// NewScreenStateMachine создаёт машину в состоянии Menu с выбранным первым пунктом
func NewScreenStateMachine(
	events ButtonSource,
	screen Screen,
	outputs SafeOutputs,
	options []entity.MenuOption,
	loops map[entity.Mode]ModeLoop,
	cfg ScreenConfig,
) (*ScreenStateMachine, error) {
	if len(options) == 0 {
		return nil, errors.New("menu has no options")
	}
	for _, opt := range options {
		if _, ok := loops[opt.Mode]; !ok {
			return nil, fmt.Errorf("no loop registered for menu option %q (%s)", opt.Name, opt.Mode)
		}
	}

	return &ScreenStateMachine{
		events:  events,
		screen:  screen,
		outputs: outputs,
		options: options,
		loops:   loops,
		cfg:     cfg,
		log:     log.With("component", "screen"),
		mode:    entity.ModeMenu,
	}, nil
}

// Mode возвращает активный экран
func (s *ScreenStateMachine) Mode() entity.Mode {
	return s.mode
}

// Selected возвращает индекс выбранного пункта
func (s *ScreenStateMachine) Selected() int {
	return s.selected
}

// NavigateUp сдвигает выбор вверх по кругу
func (s *ScreenStateMachine) NavigateUp() {
	s.selected = (s.selected - 1 + len(s.options)) % len(s.options)
	s.drawMenu()
}

// NavigateDown сдвигает выбор вниз по кругу
func (s *ScreenStateMachine) NavigateDown() {
	s.selected = (s.selected + 1) % len(s.options)
	s.drawMenu()
}

// Run рисует меню и шагает машину до отмены контекста
func (s *ScreenStateMachine) Run(ctx context.Context) error {
	s.drawMenu()
	for {
		s.Step(ctx)
		if err := pause(ctx, s.cfg.Idle); err != nil {
			return nil
		}
	}
}

// Step обрабатывает не более одного события кнопки.
// Возвращает false, если событий не было.
func (s *ScreenStateMachine) Step(ctx context.Context) bool {
	ev, ok := s.events.NextButton()
	if !ok {
		return false
	}

	// enter возвращает машину в меню сам; ветка нужна, только если Step
	// вызван, пока режим ещё отмечен активным
	if s.mode != entity.ModeMenu {
		if ev == entity.ButtonPrevious {
			s.mode = entity.ModeMenu
			s.drawMenu()
		}
		return true
	}

	switch ev {
	case entity.ButtonPrevious:
		s.NavigateUp()
	case entity.ButtonNext:
		s.NavigateDown()
	case entity.ButtonConfirm:
		s.enter(ctx, s.options[s.selected])
	}
	return true
}

// enter синхронно запускает цикл режима и всегда возвращает машину в меню
func (s *ScreenStateMachine) enter(ctx context.Context, opt entity.MenuOption) {
	s.log.Info("option selected", "option", opt.Name)
	if err := pause(ctx, s.cfg.SelectDelay); err != nil {
		return
	}

	s.mode = opt.Mode
	err := s.runLoop(ctx, opt.Mode)
	if err != nil && ctx.Err() == nil {
		s.log.Error("mode loop failed", "mode", opt.Mode, "error", err)
		if err := s.outputs.ForceSafe(); err != nil {
			s.log.Error("failed to force outputs safe", "error", err)
		}
	}

	s.mode = entity.ModeMenu
	s.drawMenu()
}

func (s *ScreenStateMachine) runLoop(ctx context.Context, mode entity.Mode) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s loop panicked: %v", mode, r)
		}
	}()
	return s.loops[mode].Run(ctx)
}

func (s *ScreenStateMachine) drawMenu() {
	s.screen.show(s.log, s.screen.Renderer.Menu(s.options, s.selected))
}
