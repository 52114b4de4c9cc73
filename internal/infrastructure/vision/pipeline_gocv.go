//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"inspection-station/internal/domain/entity"
)

// Detect находит внешние области целевого цвета средствами OpenCV.
// Области идут в том порядке, в котором их вернул FindContours.
func (p *Pipeline) Detect(ctx context.Context, frame *entity.Frame) ([]entity.DetectedRegion, error) {
	_ = ctx
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Pix)
	if err != nil {
		return nil, fmt.Errorf("wrap frame: %w", err)
	}
	defer mat.Close()

	mask := p.mask(mat, frame.Encoding)
	defer mask.Close()

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	regions := make([]entity.DetectedRegion, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := contours.At(i)
		area := gocv.ContourArea(c)
		if !p.keep(area) {
			continue
		}

		rect := gocv.BoundingRect(c)
		regions = append(regions, entity.DetectedRegion{
			X:      rect.Min.X,
			Y:      rect.Min.Y,
			Width:  rect.Dx(),
			Height: rect.Dy(),
			Area:   area,
		})
	}

	return regions, nil
}

// mask строит бинарную маску целевого цвета и закрывает мелкие разрывы.
func (p *Pipeline) mask(mat gocv.Mat, enc entity.ColorEncoding) gocv.Mat {
	code := gocv.ColorRGBToHSV
	if enc == entity.EncodingBGR {
		code = gocv.ColorBGRToHSV
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, code)

	lo, hi := p.cfg.Target.Lower, p.cfg.Target.Upper
	raw := gocv.NewMat()
	defer raw.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(float64(lo[0]), float64(lo[1]), float64(lo[2]), 0),
		gocv.NewScalar(float64(hi[0]), float64(hi[1]), float64(hi[2]), 0),
		&raw,
	)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(p.cfg.KernelSize, p.cfg.KernelSize))
	defer kernel.Close()

	dilated := gocv.NewMat()
	defer dilated.Close()
	gocv.Dilate(raw, &dilated, kernel)

	cleaned := gocv.NewMat()
	gocv.Erode(dilated, &cleaned, kernel)
	return cleaned
}
