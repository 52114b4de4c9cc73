//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"inspection-station/internal/domain/entity"
)

func TestNativeDetect_RasterOrderAndPixelArea(t *testing.T) {
	p := newTestPipeline(t)
	lowerLeft := image.Rect(5, 40, 25, 60)
	upperRight := image.Rect(50, 5, 70, 25)

	regions, err := p.Detect(context.Background(), testFrame(80, 70, entity.EncodingRGB, lowerLeft, upperRight))
	require.NoError(t, err)
	require.Len(t, regions, 2)
	require.Equal(t, upperRight, regions[0].Bounds())
	require.Equal(t, lowerLeft, regions[1].Bounds())
	require.Equal(t, 400.0, regions[0].Area)
}

func TestNativeDetect_AreaThresholdIsExclusive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KernelSize = 1
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	exact := image.Rect(5, 5, 15, 10)    // 50 px
	larger := image.Rect(30, 5, 41, 10) // 55 px

	regions, err := p.Detect(context.Background(), testFrame(60, 20, entity.EncodingRGB, exact, larger))
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, larger, regions[0].Bounds())
}

func TestHSV8_OpenCVScale(t *testing.T) {
	h, s, v := hsv8(255, 220, 0)
	require.Equal(t, uint8(26), h)
	require.Equal(t, uint8(255), s)
	require.Equal(t, uint8(255), v)

	h, _, _ = hsv8(0, 0, 255)
	require.Equal(t, uint8(120), h)

	_, s, v = hsv8(128, 128, 128)
	require.Equal(t, uint8(0), s)
	require.Equal(t, uint8(128), v)
}

func TestMask_DiagonalNeighboursConnect(t *testing.T) {
	m := newMask(4, 4)
	m.px[0] = true     // (0,0)
	m.px[1*4+1] = true // (1,1)
	m.px[3*4+3] = true // (3,3)

	comps := m.components()
	require.Len(t, comps, 2)
	require.Equal(t, 2, comps[0].area)
	require.Equal(t, 1, comps[1].area)
}

func TestMask_ErodeUndoesDilateOnRectangle(t *testing.T) {
	m := newMask(20, 20)
	for y := 5; y < 10; y++ {
		for x := 4; x < 12; x++ {
			m.px[y*20+x] = true
		}
	}
	closed := m.dilate(5).erode(5)
	require.Equal(t, m.px, closed.px)
}
