package canvaslayer

import "testing"

func TestClickDispatch(t *testing.T) {
	l, host, loader := newTestLayer(t)

	var clicked []string
	m := testMarker("target", 42, -71)
	m.OnClick = func(m *Marker) { clicked = append(clicked, m.ID) }
	l.AddMarker(m)
	loader.finish("icons/pin.png", redIcon(32))

	x, y := host.Project(m.Lat, m.Lng)
	l.Click(x, y)
	if len(clicked) != 1 || clicked[0] != "target" {
		t.Fatalf("Expected one click on target, got %v", clicked)
	}

	// Inside the box but off the exact point still hits.
	l.Click(x+10, y-10)
	if len(clicked) != 2 {
		t.Errorf("Expected box hit, got %v", clicked)
	}

	// Outside every box is a miss.
	l.Click(x+100, y+100)
	if len(clicked) != 2 {
		t.Errorf("Expected miss outside the box, got %v", clicked)
	}
}

func TestClickIgnoresPendingMarker(t *testing.T) {
	l, host, _ := newTestLayer(t)

	clicked := false
	m := testMarker("pending", 42, -71)
	m.OnClick = func(*Marker) { clicked = true }
	l.AddMarker(m)

	x, y := host.Project(m.Lat, m.Lng)
	l.Click(x, y)
	if clicked {
		t.Error("Expected no click while the marker's icon is pending")
	}
}

func TestClickWithoutHandler(t *testing.T) {
	l, host, loader := newTestLayer(t)

	m := testMarker("silent", 42, -71)
	l.AddMarker(m)
	loader.finish("icons/pin.png", redIcon(32))

	x, y := host.Project(m.Lat, m.Lng)
	l.Click(x, y) // must not panic
}

func TestHoverEnterAndLeave(t *testing.T) {
	l, host, loader := newTestLayer(t)

	var overs, outs int
	m := testMarker("h", 42, -71)
	m.OnMouseOver = func(*Marker) { overs++ }
	m.OnMouseOut = func(*Marker) { outs++ }
	l.AddMarker(m)
	loader.finish("icons/pin.png", redIcon(32))

	host.SetCursor("grab")

	x, y := host.Project(m.Lat, m.Lng)
	l.PointerMove(x, y)
	if overs != 1 || outs != 0 {
		t.Fatalf("Expected mouseover on enter, got overs=%d outs=%d", overs, outs)
	}
	if host.Cursor() != CursorPointer {
		t.Errorf("Expected pointer cursor while hovering, got %q", host.Cursor())
	}

	// Moving within the same box fires nothing.
	l.PointerMove(x+5, y+5)
	if overs != 1 || outs != 0 {
		t.Fatalf("Expected no events within the box, got overs=%d outs=%d", overs, outs)
	}

	l.PointerMove(x+200, y+200)
	if overs != 1 || outs != 1 {
		t.Fatalf("Expected mouseout on leave, got overs=%d outs=%d", overs, outs)
	}
	if host.Cursor() != "grab" {
		t.Errorf("Expected original cursor restored, got %q", host.Cursor())
	}

	// Idle moves stay silent.
	l.PointerMove(x+210, y+210)
	if overs != 1 || outs != 1 {
		t.Errorf("Expected no events while idle, got overs=%d outs=%d", overs, outs)
	}
}

func TestHoverTransitionBetweenMarkers(t *testing.T) {
	l, host, loader := newTestLayer(t)

	var events []string
	a := testMarker("a", 42, -71)
	b := testMarker("b", 42, -70.5)
	for _, m := range []*Marker{a, b} {
		m := m
		m.OnMouseOver = func(*Marker) { events = append(events, "over:"+m.ID) }
		m.OnMouseOut = func(*Marker) { events = append(events, "out:"+m.ID) }
		l.AddMarker(m)
	}
	loader.finish("icons/pin.png", redIcon(32))

	ax, ay := host.Project(a.Lat, a.Lng)
	bx, by := host.Project(b.Lat, b.Lng)

	l.PointerMove(ax, ay)
	l.PointerMove(bx, by)

	want := []string{"over:a", "out:a", "over:b"}
	if len(events) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("Expected events %v, got %v", want, events)
		}
	}
	if host.Cursor() != CursorPointer {
		t.Errorf("Expected pointer cursor through the transition, got %q", host.Cursor())
	}
}

func TestRemoveHoveredMarkerRestoresCursor(t *testing.T) {
	l, host, loader := newTestLayer(t)

	m := testMarker("h", 42, -71)
	l.AddMarker(m)
	loader.finish("icons/pin.png", redIcon(32))

	host.SetCursor("crosshair")
	x, y := host.Project(m.Lat, m.Lng)
	l.PointerMove(x, y)
	if host.Cursor() != CursorPointer {
		t.Fatalf("Expected pointer cursor, got %q", host.Cursor())
	}

	l.RemoveMarker(m)
	if host.Cursor() != "crosshair" {
		t.Errorf("Expected cursor restored on hovered-marker removal, got %q", host.Cursor())
	}
}

func TestHandlerMayReenterLayer(t *testing.T) {
	l, host, loader := newTestLayer(t)

	m := testMarker("self-remove", 42, -71)
	m.OnClick = func(m *Marker) { l.RemoveMarker(m) }
	l.AddMarker(m)
	loader.finish("icons/pin.png", redIcon(32))

	x, y := host.Project(m.Lat, m.Lng)
	l.Click(x, y) // must not deadlock
	if l.Count() != 0 {
		t.Errorf("Expected handler to remove its marker, got %d", l.Count())
	}
}
