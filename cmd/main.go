package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	periph "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"inspection-station/config"
	"inspection-station/internal/container"
	"inspection-station/internal/domain/entity"
	"inspection-station/internal/domain/port"
	"inspection-station/internal/infrastructure/camera"
	"inspection-station/internal/infrastructure/display"
	"inspection-station/internal/infrastructure/gpio"
	"inspection-station/internal/log"
)

// Version версия станции
const Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "station",
		Short:         "Trigger-synchronized colour region inspection station",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	var simulateGPIO bool
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the operator menu and inspection loops",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), simulateGPIO)
		},
	}
	runCmd.Flags().BoolVar(&simulateGPIO, "simulate-gpio", false, "use in-memory pins instead of the board GPIO")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the station version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	root.AddCommand(runCmd, versionCmd)
	return root
}

func run(ctx context.Context, simulateGPIO bool) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.Init(cfg.LogLevel)

	pins := boardPins(cfg.Pins)
	var board *gpio.Board
	if simulateGPIO {
		board, err = gpio.NewBoard(pins, simulatedPins())
	} else {
		board, err = gpio.Open(pins)
	}
	if err != nil {
		return fmt.Errorf("failed to open gpio: %w", err)
	}
	defer func() {
		if cerr := board.Close(); cerr != nil {
			logger.Warn("gpio close failed", "error", cerr)
		}
	}()

	cam := newCamera(cfg)
	if err := cam.Start(); err != nil {
		return fmt.Errorf("failed to start camera: %w", err)
	}
	defer func() {
		if serr := cam.Stop(); serr != nil {
			logger.Warn("camera stop failed", "error", serr)
		}
	}()

	screen, err := display.NewFile(cfg.Display.OutputPath, cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return fmt.Errorf("failed to create display: %w", err)
	}
	defer func() {
		if cerr := screen.Clear(); cerr != nil {
			logger.Warn("display clear failed", "error", cerr)
		}
	}()

	station, err := container.New(cfg, container.Hardware{
		Outputs: board,
		Inputs:  board,
		Camera:  cam,
		Display: screen,
	})
	if err != nil {
		return err
	}
	defer func() {
		if serr := station.Latch.ForceSafe(); serr != nil {
			logger.Warn("failed to reset outputs", "error", serr)
		}
	}()

	if err := board.Watch(ctx, station.Bus); err != nil {
		return fmt.Errorf("failed to enable edge detection: %w", err)
	}

	logger.Info("station is running",
		"camera", cfg.Camera.Source,
		"display", cfg.Display.OutputPath,
		"expected_regions", cfg.Vision.ExpectedRegions,
	)
	err = station.Screen.Run(ctx)
	logger.Info("station is shutting down")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newCamera(cfg *config.Config) port.Camera {
	if cfg.Camera.Source == config.CameraDevice {
		return camera.NewDevice(cfg.Camera.Device, cfg.Capture.Preview)
	}
	return camera.NewStill(cfg.Camera.StillPath, cfg.Capture.Preview)
}

func boardPins(p config.PinConfig) gpio.Pins {
	buttons := make([]gpio.ButtonPin, 0, 3)
	for _, line := range container.ButtonLines(p) {
		buttons = append(buttons, gpio.ButtonPin{Event: line.Event, Pin: line.Pin, Bounce: line.Debounce})
	}
	return gpio.Pins{
		Outputs: map[entity.Signal]int{
			entity.SignalControl: p.Control,
			entity.SignalGreen:   p.Green,
			entity.SignalRed:     p.Red,
		},
		Buttons:       buttons,
		Trigger:       p.Trigger,
		TriggerBounce: p.TriggerBounce,
	}
}

// simulatedPins линии в памяти для запуска без платы
func simulatedPins() func(n int) periph.PinIO {
	pins := map[int]*gpiotest.Pin{}
	return func(n int) periph.PinIO {
		p, ok := pins[n]
		if !ok {
			p = &gpiotest.Pin{N: fmt.Sprintf("GPIO%d", n), Num: n, EdgesChan: make(chan periph.Level, 1)}
			pins[n] = p
		}
		return p
	}
}
