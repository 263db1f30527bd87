package canvaslayer

// Pointer input translation: raw click/move positions become marker-level
// click, mouseover and mouseout events via point queries against the
// screen-space index.
//
// Hover tracking is an explicit two-state machine, {idle, hovering(m)}:
//
//	idle      --hit m-->            hovering(m)  cursor saved, pointer set, mouseover(m)
//	hovering(m) --hit m-->          hovering(m)  no-op
//	hovering(m) --hit n, n != m-->  hovering(n)  mouseout(m), mouseover(n)
//	hovering(m) --no hit-->         idle         cursor restored, mouseout(m)
//	idle      --no hit-->           idle         no-op
//
// Handlers are invoked after internal locks are released, so they may call
// back into the layer.

// Click resolves a pointer click at surface pixel (x, y). When the click
// lands inside a drawn marker's bounding box and that marker declares an
// OnClick handler, the handler fires.
//
// When several boxes overlap the pixel, the first entry produced by the
// index query wins; no z-order tie-break is guaranteed.
func (l *Layer) Click(x, y float64) {
	l.mu.Lock()
	var target *Marker
	if e, ok := l.screen.At(x, y); ok {
		target = e.Value
	}
	l.mu.Unlock()

	if target != nil && target.OnClick != nil {
		target.OnClick(target)
	}
}

// PointerMove drives the hover state machine from a pointer position on the
// surface.
func (l *Layer) PointerMove(x, y float64) {
	l.mu.Lock()
	if l.host == nil {
		l.mu.Unlock()
		return
	}

	var fire []func()
	hit, ok := l.screen.At(x, y)
	switch {
	case ok && l.hover != hit.Value:
		if l.hover != nil {
			prev := l.hover
			if prev.OnMouseOut != nil {
				fire = append(fire, func() { prev.OnMouseOut(prev) })
			}
		} else {
			// Entering from idle: remember the host cursor so it can
			// be restored when the hover ends.
			l.prevCursor = l.host.Cursor()
			l.host.SetCursor(CursorPointer)
		}
		next := hit.Value
		l.hover = next
		if next.OnMouseOver != nil {
			fire = append(fire, func() { next.OnMouseOver(next) })
		}

	case !ok && l.hover != nil:
		prev := l.hover
		l.hover = nil
		l.host.SetCursor(l.prevCursor)
		if prev.OnMouseOut != nil {
			fire = append(fire, func() { prev.OnMouseOut(prev) })
		}
	}
	l.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}
