package app

import "fmt"

// clampIndex keeps an active index inside [0, count-1]. Moving past either
// end settles at the boundary, never wraps.
func clampIndex(i, count int) int {
	if count <= 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}

// clampOffset keeps a requested start offset inside [0, max(0, total-1)].
func clampOffset(offset, total int) int {
	if total <= 0 {
		return 0
	}
	return clampIndex(offset, total)
}

// clampScroll keeps a scroll offset inside [0, max(0, total-visible)] so the
// window never scrolls past the last page.
func clampScroll(offset, total, visible int) int {
	maxOffset := total - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// paginate clips [0,total) to a window starting near offset within a budget
// of display slots. When content is truncated, one trailing slot is reserved
// for the hidden-count indicator instead of a partial content line, and
// hidden counts every line beyond the shown window.
func paginate(total, budget, offset int) (start, shown, hidden int) {
	if budget < 1 {
		budget = 1
	}
	start = clampOffset(offset, total)
	remaining := total - start
	if remaining <= budget {
		return start, remaining, 0
	}
	shown = budget - 1
	hidden = remaining - shown
	return start, shown, hidden
}

func hiddenIndicator(hidden int) string {
	return fmt.Sprintf("... (%d more lines)", hidden)
}

// fillSlots pads rendered lines with blanks to exactly slots entries so
// panel borders stay put across selections.
func fillSlots(lines []string, slots int) []string {
	for len(lines) < slots {
		lines = append(lines, "")
	}
	return lines
}

// centeredWindow computes the [start, end) range of a list window centered
// on the active index and clamped so it never runs past either end.
func centeredWindow(count, window, active int) (int, int) {
	if window >= count {
		return 0, count
	}
	if window < 1 {
		window = 1
	}
	start := active - window/2
	start = clampScroll(start, count, window)
	return start, start + window
}

// ensureVisible adjusts a scroll offset the minimal amount needed to keep
// the active index inside the window.
func ensureVisible(offset, active, visible int) int {
	if visible < 1 {
		visible = 1
	}
	if active < offset {
		return active
	}
	if active >= offset+visible {
		return active - visible + 1
	}
	return offset
}
