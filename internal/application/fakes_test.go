package app

import (
	"context"
	"errors"
	"image"
	"sync"

	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
)

// fakeOutputs запоминает уровни выходов и число записей
type fakeOutputs struct {
	mu     sync.Mutex
	levels map[entity.Signal]entity.Level
	writes int
	err    error
}

func newFakeOutputs() *fakeOutputs {
	return &fakeOutputs{levels: make(map[entity.Signal]entity.Level)}
}

func (o *fakeOutputs) SetOutput(s entity.Signal, v entity.Level) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.writes++
	if o.err != nil {
		return o.err
	}
	o.levels[s] = v
	return nil
}

func (o *fakeOutputs) snapshot() entity.OutputLevels {
	o.mu.Lock()
	defer o.mu.Unlock()
	return entity.OutputLevels{
		Control: o.levels[entity.SignalControl],
		Green:   o.levels[entity.SignalGreen],
		Red:     o.levels[entity.SignalRed],
	}
}

func (o *fakeOutputs) writeCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writes
}

// fakeInputs: линии без явного уровня читаются как high (кнопка отпущена)
type fakeInputs struct {
	mu     sync.Mutex
	levels map[int]bool
	reads  map[int]int
}

func newFakeInputs() *fakeInputs {
	return &fakeInputs{levels: make(map[int]bool), reads: make(map[int]int)}
}

func (f *fakeInputs) ReadDigitalInput(pin int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[pin]++
	if v, ok := f.levels[pin]; ok {
		return v, nil
	}
	return true, nil
}

func (f *fakeInputs) set(pin int, high bool) {
	f.mu.Lock()
	f.levels[pin] = high
	f.mu.Unlock()
}

// scriptedEvents отдаёт кнопки из очереди и считает обращения
type scriptedEvents struct {
	mu       sync.Mutex
	buttons  []entity.ButtonEvent
	triggers []bool
	polls    int
	onPoll   func(n int) // вызывается при каждом NextButton
}

func (e *scriptedEvents) NextButton() (entity.ButtonEvent, bool) {
	e.mu.Lock()
	e.polls++
	n := e.polls
	hook := e.onPoll
	e.mu.Unlock()
	if hook != nil {
		hook(n)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.buttons) == 0 {
		return 0, false
	}
	ev := e.buttons[0]
	e.buttons = e.buttons[1:]
	return ev, ev != 0
}

func (e *scriptedEvents) push(evs ...entity.ButtonEvent) {
	e.mu.Lock()
	e.buttons = append(e.buttons, evs...)
	e.mu.Unlock()
}

func (e *scriptedEvents) ConsumeTrigger() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.triggers) == 0 {
		return false
	}
	t := e.triggers[0]
	e.triggers = e.triggers[1:]
	return t
}

var errCamera = errors.New("camera busy")

// fakeCamera моделирует остановку, настройку и запуск камеры
type fakeCamera struct {
	mu         sync.Mutex
	cfg        entity.CaptureConfig
	running    bool
	calls      []string
	stopErrs   []error
	configErrs []error
	startErrs  []error
	captureErr error
	frame      *entity.Frame
	captures   int
}

func newFakeCamera(cfg entity.CaptureConfig) *fakeCamera {
	return &fakeCamera{cfg: cfg, running: true, frame: entity.NewFrame(4, 4, entity.EncodingRGB)}
}

func popErr(q *[]error) error {
	if len(*q) == 0 {
		return nil
	}
	err := (*q)[0]
	*q = (*q)[1:]
	return err
}

func (c *fakeCamera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "start")
	if err := popErr(&c.startErrs); err != nil {
		return err
	}
	c.running = true
	return nil
}

func (c *fakeCamera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "stop")
	if err := popErr(&c.stopErrs); err != nil {
		return err
	}
	c.running = false
	return nil
}

func (c *fakeCamera) Configure(cfg entity.CaptureConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "configure "+cfg.Name)
	if err := popErr(&c.configErrs); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *fakeCamera) Config() entity.CaptureConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *fakeCamera) Capture(ctx context.Context) (*entity.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.captures++
	if c.captureErr != nil {
		return nil, c.captureErr
	}
	return c.frame, nil
}

func (c *fakeCamera) state() (entity.CaptureConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg, c.running
}

// fakeDetector возвращает заданное число областей
type fakeDetector struct {
	mu    sync.Mutex
	count int
	err   error
	panic bool
}

func (d *fakeDetector) Detect(ctx context.Context, f *entity.Frame) ([]entity.DetectedRegion, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.panic {
		panic("detector exploded")
	}
	if d.err != nil {
		return nil, d.err
	}
	return make([]entity.DetectedRegion, d.count), nil
}

// fakeDisplay считает показанные кадры
type fakeDisplay struct {
	mu    sync.Mutex
	shown int
}

func (d *fakeDisplay) Show(img image.Image) error {
	d.mu.Lock()
	d.shown++
	d.mu.Unlock()
	return nil
}

// fakeRenderer запоминает, какие экраны собирались
type fakeRenderer struct {
	mu    sync.Mutex
	views []string
	menus []int
}

func (r *fakeRenderer) record(name string) image.Image {
	r.mu.Lock()
	r.views = append(r.views, name)
	r.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

func (r *fakeRenderer) Menu(options []entity.MenuOption, selected int) image.Image {
	r.mu.Lock()
	r.menus = append(r.menus, selected)
	r.mu.Unlock()
	return r.record("menu")
}

func (r *fakeRenderer) Detection(view port.DetectionView) image.Image { return r.record("detection") }
func (r *fakeRenderer) Calibration(frame *entity.Frame) image.Image   { return r.record("calibration") }
func (r *fakeRenderer) Production(cycle, total int) image.Image      { return r.record("production") }
func (r *fakeRenderer) ProductionDone(total int) image.Image         { return r.record("production-done") }

func (r *fakeRenderer) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.views {
		if v == name {
			n++
		}
	}
	return n
}

func newTestScreen() (Screen, *fakeDisplay, *fakeRenderer) {
	d := &fakeDisplay{}
	r := &fakeRenderer{}
	return Screen{Display: d, Renderer: r}, d, r
}

var (
	previewCfg   = entity.CaptureConfig{Name: "preview", Width: 320, Height: 240}
	detectionCfg = entity.CaptureConfig{Name: "detection", Width: 640, Height: 480}
	calibCfg     = entity.CaptureConfig{Name: "calibration", Width: 320, Height: 240}
)
