// Package gpio подключает кнопки, линию триггера и выходы станции через periph.io.
package gpio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
	"inspection-station/internal/log"
)

// ErrUnknownPin возвращается для линии, не описанной в Pins
var ErrUnknownPin = errors.New("unknown pin")

// edgeWait сколько ждать фронт перед очередной проверкой контекста
const edgeWait = 100 * time.Millisecond

// ButtonPin кнопка: активный низкий уровень, подтяжка к питанию
type ButtonPin struct {
	Event  entity.ButtonEvent
	Pin    int
	Bounce time.Duration
}

// Pins номера линий в нумерации BCM
type Pins struct {
	Outputs       map[entity.Signal]int
	Buttons       []ButtonPin
	Trigger       int
	TriggerBounce time.Duration
}

// EdgeSink принимает события от обработчиков фронтов
type EdgeSink interface {
	PostButton(ev entity.ButtonEvent)
	RaiseTrigger()
}

// Board владеет всеми линиями станции
type Board struct {
	pins    Pins
	outputs map[entity.Signal]gpio.PinIO
	inputs  map[int]gpio.PinIO
	now     func() time.Time
	log     *slog.Logger

	mu   sync.Mutex
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// Open инициализирует драйверы periph и берёт линии из реестра по имени GPIO<n>
func Open(pins Pins) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return NewBoard(pins, func(n int) gpio.PinIO {
		return gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	})
}

// NewBoard настраивает линии, полученные через lookup: выходы в низкий уровень,
// кнопки с подтяжкой вверх, триггер с подтяжкой вниз.
func NewBoard(pins Pins, lookup func(n int) gpio.PinIO) (*Board, error) {
	b := &Board{
		pins:    pins,
		outputs: make(map[entity.Signal]gpio.PinIO, len(pins.Outputs)),
		inputs:  make(map[int]gpio.PinIO, len(pins.Buttons)+1),
		now:     time.Now,
		log:     log.With("component", "gpio"),
	}

	get := func(n int) (gpio.PinIO, error) {
		p := lookup(n)
		if p == nil {
			return nil, fmt.Errorf("%w: GPIO%d", ErrUnknownPin, n)
		}
		return p, nil
	}

	for signal, n := range pins.Outputs {
		p, err := get(n)
		if err != nil {
			return nil, err
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("configure %s output GPIO%d: %w", signal, n, err)
		}
		b.outputs[signal] = p
	}

	for _, btn := range pins.Buttons {
		p, err := get(btn.Pin)
		if err != nil {
			return nil, err
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("configure %s button GPIO%d: %w", btn.Event, btn.Pin, err)
		}
		b.inputs[btn.Pin] = p
	}

	p, err := get(pins.Trigger)
	if err != nil {
		return nil, err
	}
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure trigger GPIO%d: %w", pins.Trigger, err)
	}
	b.inputs[pins.Trigger] = p

	return b, nil
}

// SetOutput выставляет уровень выхода
func (b *Board) SetOutput(signal entity.Signal, level entity.Level) error {
	p, ok := b.outputs[signal]
	if !ok {
		return fmt.Errorf("%w: signal %s", ErrUnknownPin, signal)
	}
	return p.Out(gpio.Level(level))
}

// ReadDigitalInput читает текущий уровень входа
func (b *Board) ReadDigitalInput(pin int) (bool, error) {
	p, ok := b.inputs[pin]
	if !ok {
		return false, fmt.Errorf("%w: GPIO%d", ErrUnknownPin, pin)
	}
	return p.Read() == gpio.High, nil
}

// Watch включает детектирование фронтов: спад на кнопках, подъём на триггере.
// Каждая линия обслуживается своей горутиной до отмены ctx или Close.
func (b *Board) Watch(ctx context.Context, sink EdgeSink) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stop != nil {
		return errors.New("edge watch already running")
	}

	for _, btn := range b.pins.Buttons {
		if err := b.inputs[btn.Pin].In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return fmt.Errorf("enable edges on GPIO%d: %w", btn.Pin, err)
		}
	}
	if err := b.inputs[b.pins.Trigger].In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return fmt.Errorf("enable edges on trigger GPIO%d: %w", b.pins.Trigger, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	b.stop = cancel

	for _, btn := range b.pins.Buttons {
		ev := btn.Event
		b.watch(ctx, btn.Pin, btn.Bounce, func() { sink.PostButton(ev) })
	}
	b.watch(ctx, b.pins.Trigger, b.pins.TriggerBounce, sink.RaiseTrigger)

	b.log.Info("edge detection enabled", "buttons", len(b.pins.Buttons), "trigger", b.pins.Trigger)
	return nil
}

func (b *Board) watch(ctx context.Context, n int, bounce time.Duration, fire func()) {
	p := b.inputs[n]
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		var last time.Time
		for ctx.Err() == nil {
			if !p.WaitForEdge(edgeWait) {
				continue
			}
			now := b.now()
			if !last.IsZero() && now.Sub(last) < bounce {
				continue
			}
			last = now
			fire()
		}
	}()
}

// Close останавливает обработчики фронтов, снимает детектирование и гасит выходы
func (b *Board) Close() error {
	b.mu.Lock()
	stop := b.stop
	b.stop = nil
	b.mu.Unlock()

	if stop != nil {
		stop()
		b.wg.Wait()
	}

	var errs []error
	for signal, p := range b.outputs {
		if err := p.Out(gpio.Low); err != nil {
			errs = append(errs, fmt.Errorf("reset %s: %w", signal, err))
		}
	}
	for n, p := range b.inputs {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			errs = append(errs, fmt.Errorf("release GPIO%d: %w", n, err))
		}
	}
	return errors.Join(errs...)
}

var (
	_ port.OutputDriver = (*Board)(nil)
	_ port.InputReader  = (*Board)(nil)
)
