//go:build !gocv
// +build !gocv

package vision

// mask бинарная маска кадра
type mask struct {
	w, h int
	px   []bool
}

func newMask(w, h int) *mask {
	return &mask{w: w, h: h, px: make([]bool, w*h)}
}

// dilate: пиксель взведён, если взведён хоть один сосед в квадрате k x k.
// Пиксели за краем кадра не учитываются.
func (m *mask) dilate(k int) *mask {
	return m.morph(k, false)
}

// erode: пиксель остаётся, только если взведены все соседи в квадрате k x k внутри кадра.
func (m *mask) erode(k int) *mask {
	return m.morph(k, true)
}

// morph применяет квадратное ядро как два прохода: по строкам и по столбцам
func (m *mask) morph(k int, all bool) *mask {
	r := k / 2
	if r == 0 {
		return m
	}

	tmp := newMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			tmp.px[y*m.w+x] = m.window(x, y, r, 1, 0, all)
		}
	}

	out := newMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			out.px[y*m.w+x] = tmp.window(x, y, r, 0, 1, all)
		}
	}
	return out
}

// window сворачивает отрезок длиной 2r+1 вдоль (dx, dy) через OR или AND
func (m *mask) window(x, y, r, dx, dy int, all bool) bool {
	for i := -r; i <= r; i++ {
		nx, ny := x+i*dx, y+i*dy
		if nx < 0 || ny < 0 || nx >= m.w || ny >= m.h {
			continue
		}
		v := m.px[ny*m.w+nx]
		if all && !v {
			return false
		}
		if !all && v {
			return true
		}
	}
	return all
}

// component одна 8-связная область маски
type component struct {
	minX, minY, maxX, maxY int
	area                   int
}

// components размечает 8-связные области в порядке построчного обхода
func (m *mask) components() []component {
	seen := make([]bool, len(m.px))
	var out []component
	var stack []int

	for start, on := range m.px {
		if !on || seen[start] {
			continue
		}

		c := component{minX: m.w, minY: m.h, maxX: -1, maxY: -1}
		seen[start] = true
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			x, y := i%m.w, i/m.w
			c.area++
			c.minX, c.maxX = min(c.minX, x), max(c.maxX, x)
			c.minY, c.maxY = min(c.minY, y), max(c.maxY, y)

			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= m.w || ny >= m.h {
						continue
					}
					j := ny*m.w + nx
					if m.px[j] && !seen[j] {
						seen[j] = true
						stack = append(stack, j)
					}
				}
			}
		}
		out = append(out, c)
	}
	return out
}
