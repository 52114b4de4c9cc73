package app

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
	"inspection-station/internal/log"
)

// ButtonSource источник нажатий кнопок
type ButtonSource interface {
	NextButton() (entity.ButtonEvent, bool)
}

// TriggerSource источник фронтов внешнего триггера
type TriggerSource interface {
	ConsumeTrigger() bool
}

// Events всё, что нужно циклам режимов от шины
type Events interface {
	ButtonSource
	TriggerSource
}

// ButtonLine описывает одну кнопку для опроса
type ButtonLine struct {
	Event     entity.ButtonEvent
	Pin       int
	Debounce  time.Duration // окно, в течение которого линия не опрашивается повторно
	ActiveLow bool          // нажатие читается как низкий уровень
}

// InputEventBus сводит кнопки и триггер в одну шину событий.
//
// PostButton и RaiseTrigger вызываются из горутин обработчиков фронтов,
// остальное из основного цикла.
type InputEventBus struct {
	mu      sync.Mutex
	pending entity.ButtonEvent

	trigger atomic.Bool

	pollMu   sync.Mutex
	inputs   port.InputReader
	lines    []ButtonLine
	lastPoll map[int]time.Time
	now      func() time.Time

	log *slog.Logger
}

// NewInputEventBus создаёт шину. inputs может быть nil, тогда опрос отключён.
func NewInputEventBus(inputs port.InputReader, lines []ButtonLine) *InputEventBus {
	return &InputEventBus{
		inputs:   inputs,
		lines:    lines,
		lastPoll: make(map[int]time.Time, len(lines)),
		now:      time.Now,
		log:      log.With("component", "bus"),
	}
}

// PostButton сохраняет событие, затирая непрочитанное.
// Линия кнопки после этого не опрашивается в течение своего окна дребезга.
func (b *InputEventBus) PostButton(ev entity.ButtonEvent) {
	b.pollMu.Lock()
	for _, line := range b.lines {
		if line.Event == ev {
			b.lastPoll[line.Pin] = b.now()
		}
	}
	b.pollMu.Unlock()

	b.mu.Lock()
	b.pending = ev
	b.mu.Unlock()
}

// TakeButton забирает ожидающее событие
func (b *InputEventBus) TakeButton() (entity.ButtonEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ev := b.pending
	b.pending = 0
	return ev, ev != 0
}

// RaiseTrigger взводит защёлку триггера. Повторные вызовы до ConsumeTrigger ничего не меняют.
func (b *InputEventBus) RaiseTrigger() {
	b.trigger.Store(true)
}

// ConsumeTrigger сбрасывает защёлку и сообщает, была ли она взведена
func (b *InputEventBus) ConsumeTrigger() bool {
	return b.trigger.Swap(false)
}

// PollButtons напрямую читает линии кнопок.
// Каждая линия опрашивается не чаще своего окна дребезга;
// при нескольких нажатых возвращается первая по порядку.
func (b *InputEventBus) PollButtons() (entity.ButtonEvent, bool) {
	if b.inputs == nil {
		return 0, false
	}

	b.pollMu.Lock()
	defer b.pollMu.Unlock()

	now := b.now()
	for _, line := range b.lines {
		if last, ok := b.lastPoll[line.Pin]; ok && now.Sub(last) < line.Debounce {
			continue
		}
		b.lastPoll[line.Pin] = now

		high, err := b.inputs.ReadDigitalInput(line.Pin)
		if err != nil {
			b.log.Warn("button read failed", "pin", line.Pin, "error", err)
			continue
		}
		if high != line.ActiveLow {
			return line.Event, true
		}
	}
	return 0, false
}

// NextButton отдаёт приоритет событиям от обработчиков, затем опрашивает линии
func (b *InputEventBus) NextButton() (entity.ButtonEvent, bool) {
	if ev, ok := b.TakeButton(); ok {
		return ev, true
	}
	return b.PollButtons()
}

var _ Events = (*InputEventBus)(nil)
