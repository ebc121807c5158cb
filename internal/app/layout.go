package app

// panel identifies the region under a screen row.
type panel int

const (
	panelNone panel = iota
	panelList
	panelDetail
)

const (
	viewerHeaderLines = 3
	footerLines       = 1

	// Outer panel heights include their top and bottom borders.
	minListOuter   = 5
	minDetailOuter = 5
)

// viewerLayout is the viewer screen's vertical geometry, recomputed from the
// current terminal dimensions on every render. Hit testing is a pure
// function of the cumulative heights stored here.
type viewerLayout struct {
	width  int
	height int

	listTop      int // first screen row of the list panel, 0-based
	listOuter    int
	detailTop    int
	detailOuter  int
	listInner    int // content rows inside the borders
	detailInner  int
	contentWidth int
}

func computeViewerLayout(width, height int) viewerLayout {
	l := viewerLayout{width: width, height: height}

	body := height - viewerHeaderLines - footerLines
	if body < minListOuter+minDetailOuter {
		body = minListOuter + minDetailOuter
	}

	// The list takes two fifths of the body, the detail the rest.
	l.listOuter = body * 2 / 5
	if l.listOuter < minListOuter {
		l.listOuter = minListOuter
	}
	l.detailOuter = body - l.listOuter
	if l.detailOuter < minDetailOuter {
		l.detailOuter = minDetailOuter
		l.listOuter = body - l.detailOuter
	}

	l.listTop = viewerHeaderLines
	l.detailTop = l.listTop + l.listOuter
	l.listInner = l.listOuter - 2
	l.detailInner = l.detailOuter - 2

	l.contentWidth = width - 2
	if l.contentWidth < 1 {
		l.contentWidth = 1
	}
	return l
}

// panelAt maps a 0-based screen row to the panel occupying it.
func (l viewerLayout) panelAt(row int) panel {
	switch {
	case row >= l.listTop && row < l.listTop+l.listOuter:
		return panelList
	case row >= l.detailTop && row < l.detailTop+l.detailOuter:
		return panelDetail
	default:
		return panelNone
	}
}

// selectorWindow is how many headline+subline pairs fit in the selector
// panel's interior.
func selectorWindow(height int) int {
	inner := height - viewerHeaderLines - footerLines - 2
	window := inner / 2
	if window < 1 {
		window = 1
	}
	return window
}
