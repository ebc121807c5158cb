package app

import "testing"

func TestComputeViewerLayoutPartitions(t *testing.T) {
	l := computeViewerLayout(100, 40)
	body := 40 - viewerHeaderLines - footerLines
	if l.listOuter+l.detailOuter != body {
		t.Fatalf("panels cover %d rows, want %d", l.listOuter+l.detailOuter, body)
	}
	if l.listTop != viewerHeaderLines {
		t.Fatalf("listTop = %d", l.listTop)
	}
	if l.detailTop != l.listTop+l.listOuter {
		t.Fatalf("detailTop = %d", l.detailTop)
	}
	if l.listInner != l.listOuter-2 || l.detailInner != l.detailOuter-2 {
		t.Fatalf("inner heights %d/%d for outer %d/%d", l.listInner, l.detailInner, l.listOuter, l.detailOuter)
	}
	if l.contentWidth != 98 {
		t.Fatalf("contentWidth = %d", l.contentWidth)
	}
}

func TestComputeViewerLayoutMinimums(t *testing.T) {
	l := computeViewerLayout(10, 8)
	if l.listOuter < minListOuter || l.detailOuter < minDetailOuter {
		t.Fatalf("tiny terminal collapsed a panel: %+v", l)
	}
	if l.contentWidth < 1 {
		t.Fatalf("contentWidth = %d", l.contentWidth)
	}
}

func TestPanelAt(t *testing.T) {
	l := computeViewerLayout(100, 40)

	if got := l.panelAt(0); got != panelNone {
		t.Fatalf("header row mapped to %v", got)
	}
	if got := l.panelAt(l.listTop); got != panelList {
		t.Fatalf("first list row mapped to %v", got)
	}
	if got := l.panelAt(l.detailTop - 1); got != panelList {
		t.Fatalf("last list row mapped to %v", got)
	}
	if got := l.panelAt(l.detailTop); got != panelDetail {
		t.Fatalf("first detail row mapped to %v", got)
	}
	if got := l.panelAt(l.detailTop + l.detailOuter - 1); got != panelDetail {
		t.Fatalf("last detail row mapped to %v", got)
	}
	if got := l.panelAt(l.detailTop + l.detailOuter + 5); got != panelNone {
		t.Fatalf("footer row mapped to %v", got)
	}
}

func TestSelectorWindow(t *testing.T) {
	if got := selectorWindow(40); got != (40-viewerHeaderLines-footerLines-2)/2 {
		t.Fatalf("selectorWindow(40) = %d", got)
	}
	if got := selectorWindow(5); got != 1 {
		t.Fatalf("selectorWindow(5) = %d, want floor of 1", got)
	}
}
