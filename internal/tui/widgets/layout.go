package widgets

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VStack stacks widgets top to bottom. A positive Sizes entry fixes that
// child's height; the rest share what is left by Ratios.
type VStack struct {
	Widgets []Widget
	Sizes   []int
	Ratios  []float64
}

func (v VStack) Render(width, height int) string {
	if len(v.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	heights := allocate(height, len(v.Widgets), v.Sizes, v.Ratios)
	lines := make([]string, 0, height)
	for i, w := range v.Widgets {
		if heights[i] <= 0 {
			continue
		}
		lines = append(lines, splitToLines(w.Render(width, heights[i]), heights[i])...)
	}
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

// HStack places widgets left to right with the same sizing rules as VStack.
type HStack struct {
	Widgets []Widget
	Sizes   []int
	Ratios  []float64
}

func (h HStack) Render(width, height int) string {
	if len(h.Widgets) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	widths := allocate(width, len(h.Widgets), h.Sizes, h.Ratios)
	rendered := make([][]string, len(h.Widgets))
	for i, w := range h.Widgets {
		if widths[i] <= 0 {
			continue
		}
		rendered[i] = splitToLines(w.Render(widths[i], height), height)
	}
	out := make([]string, height)
	for line := range out {
		var b strings.Builder
		for i := range rendered {
			if widths[i] <= 0 {
				continue
			}
			b.WriteString(padRight(rendered[i][line], widths[i]))
		}
		out[line] = b.String()
	}
	return strings.Join(out, "\n")
}

// allocate hands out fixed sizes first, clamped to total, then splits the
// remainder across the flexible slots.
func allocate(total, n int, sizes []int, ratios []float64) []int {
	out := make([]int, n)
	remaining := total
	var flex []int
	for i := 0; i < n; i++ {
		if i < len(sizes) && sizes[i] > 0 {
			out[i] = min(sizes[i], remaining)
			remaining -= out[i]
			continue
		}
		flex = append(flex, i)
	}
	if len(flex) == 0 {
		return out
	}
	var flexRatios []float64
	if len(ratios) == n {
		for _, i := range flex {
			flexRatios = append(flexRatios, ratios[i])
		}
	}
	for j, w := range splitWidths(remaining, len(flex), flexRatios) {
		out[flex[j]] = w
	}
	return out
}

func splitWidths(total, n int, ratios []float64) []int {
	if n <= 0 || total <= 0 {
		return make([]int, max(0, n))
	}
	if len(ratios) != n {
		width := total / n
		out := make([]int, n)
		for i := range out {
			out[i] = width
		}
		for i := 0; i < total%n; i++ {
			out[i]++
		}
		return out
	}
	ratios = slices.Clone(ratios)
	sum := 0.0
	for i, r := range ratios {
		if r <= 0 {
			ratios[i] = 1
		}
		sum += ratios[i]
	}
	out := make([]int, n)
	used := 0
	for i := range out {
		w := int(math.Floor((ratios[i] / sum) * float64(total)))
		out[i] = w
		used += w
	}
	for i := 0; used < total; i = (i + 1) % n {
		out[i]++
		used++
	}
	return out
}

func padRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
