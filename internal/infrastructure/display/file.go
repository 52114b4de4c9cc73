// Package display вывод экранов станции.
package display

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	"inspection-station/internal/domain/port"
)

// File экран, который пишет каждый кадр в PNG файл.
// Запись идёт во временный файл рядом и заменяет целевой через rename,
// поэтому читатель всегда видит целый кадр.
type File struct {
	path   string
	width  int
	height int

	mu    sync.Mutex
	shown int
}

// NewFile создаёт экран фиксированного размера
func NewFile(path string, width, height int) (*File, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("display size must be positive, got %dx%d", width, height)
	}
	if path == "" {
		return nil, fmt.Errorf("display output path is empty")
	}
	return &File{path: path, width: width, height: height}, nil
}

// Size размер экрана
func (d *File) Size() (int, int) {
	return d.width, d.height
}

// Show принимает только полный кадр размера экрана
func (d *File) Show(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != d.width || b.Dy() != d.height {
		return fmt.Errorf("display wants %dx%d, got %dx%d", d.width, d.height, b.Dx(), b.Dy())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp := filepath.Join(filepath.Dir(d.path), "."+filepath.Base(d.path)+".tmp.png")
	if err := imaging.Save(img, tmp); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish frame: %w", err)
	}
	d.shown++
	return nil
}

// Clear гасит экран чёрным кадром
func (d *File) Clear() error {
	return d.Show(imaging.New(d.width, d.height, color.Black))
}

// Shown число выведенных кадров
func (d *File) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

var _ port.Display = (*File)(nil)
