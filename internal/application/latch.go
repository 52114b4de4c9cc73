package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
	"inspection-station/internal/log"
)

// DecisionLatch переводит результат проверки в уровни выходов
// не чаще одного раза на фронт триггера.
type DecisionLatch struct {
	outputs  port.OutputDriver
	expected int
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	last   *entity.Decision
	passed int
	failed int
}

// NewDecisionLatch создаёт защёлку с ожидаемым числом областей
func NewDecisionLatch(outputs port.OutputDriver, expected int) *DecisionLatch {
	return &DecisionLatch{
		outputs:  outputs,
		expected: expected,
		now:      time.Now,
		log:      log.With("component", "latch"),
	}
}

// MaybeDecide принимает решение только если триггер был взведён.
// Без триггера выходы не трогаются.
func (l *DecisionLatch) MaybeDecide(regionCount int, trigger TriggerSource) (*entity.Decision, bool) {
	if !trigger.ConsumeTrigger() {
		return nil, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	d := entity.NewDecision(regionCount, l.expected, l.now())
	if err := l.apply(entity.LevelsFor(d.Result)); err != nil {
		l.log.Warn("output update failed", "decision_id", d.ID, "error", err)
	}

	l.last = d
	if d.Result == entity.Pass {
		l.passed++
	} else {
		l.failed++
	}

	l.log.Info("decision latched",
		"decision_id", d.ID,
		"result", d.Result,
		"regions", regionCount,
		"expected", l.expected,
	)
	return d, true
}

// ForceSafe переводит все выходы в низкий уровень
func (l *DecisionLatch) ForceSafe() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.apply(entity.SafeLevels)
}

// Last возвращает последнее решение или nil
func (l *DecisionLatch) Last() *entity.Decision {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Totals возвращает количество pass и fail с момента запуска
func (l *DecisionLatch) Totals() (passed, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.passed, l.failed
}

// apply пишет все три выхода; вызывается под l.mu
func (l *DecisionLatch) apply(levels entity.OutputLevels) error {
	var errs []error
	set := func(s entity.Signal, v entity.Level) {
		if err := l.outputs.SetOutput(s, v); err != nil {
			errs = append(errs, fmt.Errorf("set %s %s: %w", s, v, err))
		}
	}
	set(entity.SignalControl, levels.Control)
	set(entity.SignalGreen, levels.Green)
	set(entity.SignalRed, levels.Red)
	return errors.Join(errs...)
}
