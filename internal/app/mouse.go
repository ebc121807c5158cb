package app

import (
	"regexp"
	"strconv"
)

type mouseKind int

const (
	mouseWheelUp mouseKind = iota
	mouseWheelDown
	mouseLeftPress
)

// mouseEvent is one decoded SGR mouse report with 0-based coordinates.
type mouseEvent struct {
	kind mouseKind
	x, y int
}

// SGR report: ESC [ < code ; x ; y M (press) or m (release).
var reSGRMouse = regexp.MustCompile(`\x1b\[<(\d+);(\d+);(\d+)([Mm])`)

// decodeSGRMouse extracts the mouse events the state machine reacts to from
// a raw input chunk: wheel up/down (codes 64/65) and plain left press
// (code 0 with the press terminator). Everything else, releases included,
// is dropped. Some terminals leak these reports through as rune input, so
// the decoder also backs the raw-chunk path.
func decodeSGRMouse(chunk string) []mouseEvent {
	matches := reSGRMouse.FindAllStringSubmatch(chunk, -1)
	if matches == nil {
		return nil
	}

	events := make([]mouseEvent, 0, len(matches))
	for _, m := range matches {
		code, _ := strconv.Atoi(m[1])
		x, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		press := m[4] == "M"

		var kind mouseKind
		switch {
		case code == 64:
			kind = mouseWheelUp
		case code == 65:
			kind = mouseWheelDown
		case code == 0 && press:
			kind = mouseLeftPress
		default:
			continue
		}
		events = append(events, mouseEvent{kind: kind, x: x - 1, y: y - 1})
	}
	return events
}
