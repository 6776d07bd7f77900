package tui

import (
	"slices"
	"strings"

	"github.com/rivo/uniseg"
)

// InputBox is a single line editor over grapheme clusters. The cursor is a
// cluster index in [0, Len()].
type InputBox struct {
	clusters []string
	cursor   int
}

func (b *InputBox) Len() int { return len(b.clusters) }
func (b *InputBox) Cursor() int { return b.cursor }
func (b *InputBox) Text() string { return strings.Join(b.clusters, "") }
func (b *InputBox) Empty() bool { return len(b.clusters) == 0 }
func (b *InputBox) Reset() { b.clusters, b.cursor = nil, 0 }
func (b *InputBox) MoveLeft() { b.cursor = max(0, b.cursor-1) }
func (b *InputBox) MoveRight() { b.cursor = min(len(b.clusters), b.cursor+1) }
func (b *InputBox) MoveToEnd() { b.cursor = len(b.clusters) }

// Insert adds s at the cursor, one cluster per grapheme, and advances the
// cursor past it.
func (b *InputBox) Insert(s string) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		b.clusters = slices.Insert(b.clusters, b.cursor, g.Str())
		b.cursor++
	}
}

// Backspace removes the cluster before the cursor. At position 0 it does
// nothing.
func (b *InputBox) Backspace() {
	if b.cursor == 0 {
		return
	}
	b.clusters = slices.Delete(b.clusters, b.cursor-1, b.cursor)
	b.cursor--
}

// Take returns the text and clears the box.
func (b *InputBox) Take() string {
	s := b.Text()
	b.Reset()
	return s
}

// View renders at most width cells, scrolled so the cursor stays visible.
// With showCursor the cell under the cursor is drawn reversed.
func (b *InputBox) View(width int, showCursor bool) string {
	if width <= 0 {
		return ""
	}
	// Walk back from the cursor until the line is full.
	start, used := b.cursor, 0
	if showCursor {
		used = 1
	}
	for start > 0 {
		w := uniseg.StringWidth(b.clusters[start-1])
		if used+w > width {
			break
		}
		used += w
		start--
	}

	var sb strings.Builder
	cells := 0
	for i := start; i <= len(b.clusters); i++ {
		cell := " "
		if i < len(b.clusters) {
			cell = b.clusters[i]
		} else if !showCursor {
			break
		}
		w := max(1, uniseg.StringWidth(cell))
		if cells+w > width {
			break
		}
		if showCursor && i == b.cursor {
			cell = cursorStyle.Render(cell)
		}
		sb.WriteString(cell)
		cells += w
	}
	return sb.String()
}
