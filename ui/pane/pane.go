// Package pane provides the per-side image widget with pan, zoom, and click
// dispatch into the session.
package pane

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"ridgecompare/internal/plane"
	"ridgecompare/internal/session"
	"ridgecompare/pkg/geometry"
)

// Pane displays one side of the comparison. All interaction is forwarded to
// the session; the pane itself holds no comparison state beyond the cached
// render.
type Pane struct {
	widget.BaseWidget

	sess *session.Session
	side plane.Side

	raster  *fynecanvas.Raster
	scroll  *zoomScroll
	content *clickableContent
	imgSize fyne.Size

	// Last rendered output, regenerated on Invalidate.
	rendered *image.RGBA
}

// New creates a pane bound to one side of the session.
func New(sess *session.Session, side plane.Side) *Pane {
	p := &Pane{
		sess:    sess,
		side:    side,
		imgSize: fyne.NewSize(400, 300),
	}

	p.raster = fynecanvas.NewRaster(p.draw)
	p.raster.ScaleMode = fynecanvas.ImageScalePixels
	p.raster.SetMinSize(p.imgSize)

	p.content = newClickableContent(p, p.raster)
	p.scroll = newZoomScroll(p.content, p)

	p.ExtendBaseWidget(p)
	return p
}

// Container returns the pane's scrollable container for embedding.
func (p *Pane) Container() fyne.CanvasObject {
	return p.scroll
}

// Side returns the side this pane displays.
func (p *Pane) Side() plane.Side {
	return p.side
}

// Invalidate rerenders the side and refreshes the widget. Call after any
// session event touching this side.
func (p *Pane) Invalidate() {
	p.rendered = p.sess.RenderSide(p.side)
	p.updateContentSize()
}

func (p *Pane) zoom() float64 {
	if pl := p.sess.Plane(p.side); pl != nil {
		return pl.View.Zoom
	}
	return 1.0
}

func (p *Pane) pan() (float64, float64) {
	if pl := p.sess.Plane(p.side); pl != nil {
		return pl.View.PanX, pl.View.PanY
	}
	return 0, 0
}

func (p *Pane) updateContentSize() {
	if p.rendered == nil {
		p.imgSize = fyne.NewSize(400, 300)
	} else {
		z := p.zoom()
		p.imgSize = fyne.NewSize(
			float32(float64(p.rendered.Bounds().Dx())*z),
			float32(float64(p.rendered.Bounds().Dy())*z),
		)
	}

	p.raster.SetMinSize(p.imgSize)
	p.raster.Resize(p.imgSize)
	if p.content != nil {
		p.content.Resize(p.imgSize)
		p.content.Refresh()
	}
	p.raster.Refresh()
	if p.scroll != nil {
		p.scroll.Refresh()
	}
}

// draw is the raster drawing function: the cached render shifted by the view
// pan and scaled by zoom with nearest-neighbor sampling, over black.
func (p *Pane) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}
	if p.rendered == nil {
		return output
	}

	z := p.zoom()
	panX, panY := p.pan()
	src := p.rendered
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()

	for y := 0; y < h; y++ {
		sy := int(math.Floor(float64(y)/z - panY))
		if sy < 0 {
			continue
		}
		if sy >= sh {
			break
		}
		di := output.PixOffset(0, y)
		for x := 0; x < w; x++ {
			sx := int(math.Floor(float64(x)/z - panX))
			if sx < 0 {
				di += 4
				continue
			}
			if sx >= sw {
				break
			}
			si := src.PixOffset(sx, sy)
			copy(output.Pix[di:di+4], src.Pix[si:si+4])
			di += 4
		}
	}
	return output
}

// canvasToImage converts a widget position to oriented image coordinates,
// inverting the zoom and pan draw applies.
func (p *Pane) canvasToImage(pos fyne.Position) geometry.Point2D {
	offset := p.scroll.Offset()
	z := p.zoom()
	panX, panY := p.pan()
	return geometry.NewPoint2D(
		float64(pos.X+offset.X)/z-panX,
		float64(pos.Y+offset.Y)/z-panY,
	)
}

func (p *Pane) handleTap(pos fyne.Position) {
	_ = p.sess.HandleClick(p.side, p.canvasToImage(pos))
}

func (p *Pane) handleAltTap(pos fyne.Position) {
	_ = p.sess.HandleAltClick(p.side, p.canvasToImage(pos))
}

// CreateRenderer implements fyne.Widget.
func (p *Pane) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.scroll)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	pane   *Pane
}

func newZoomScroll(content fyne.CanvasObject, pane *Pane) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, pane: pane}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	zs.pane.sess.ZoomStep(zs.pane.side, ev.Scrolled.DY > 0)
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// clickableContent wraps the raster to handle mouse events.
type clickableContent struct {
	widget.BaseWidget
	pane   *Pane
	raster *fynecanvas.Raster

	dragging  bool
	lastDragX float32
	lastDragY float32
}

func newClickableContent(p *Pane, raster *fynecanvas.Raster) *clickableContent {
	cc := &clickableContent{pane: p, raster: raster}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *clickableContent) CreateRenderer() fyne.WidgetRenderer {
	return &clickableContentRenderer{content: cc}
}

func (cc *clickableContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

// Dragged pans with the pan tool; other tools leave dragging to the scroll
// container.
func (cc *clickableContent) Dragged(ev *fyne.DragEvent) {
	if cc.pane.sess.Tool() != session.ToolPan {
		return
	}
	if !cc.dragging {
		cc.dragging = true
	}
	z := cc.pane.zoom()
	cc.pane.sess.Pan(cc.pane.side, float64(ev.Dragged.DX)/z, float64(ev.Dragged.DY)/z)
}

func (cc *clickableContent) DragEnd() {
	cc.dragging = false
}

func (cc *clickableContent) Scrolled(ev *fyne.ScrollEvent) {
	cc.pane.sess.ZoomStep(cc.pane.side, ev.Scrolled.DY > 0)
}

// Tapped handles left-click events.
func (cc *clickableContent) Tapped(ev *fyne.PointEvent) {
	// Reject clicks outside widget bounds
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	cc.pane.handleTap(ev.Position)
}

// TappedSecondary handles right-click events.
func (cc *clickableContent) TappedSecondary(ev *fyne.PointEvent) {
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	cc.pane.handleAltTap(ev.Position)
}

type clickableContentRenderer struct {
	content *clickableContent
}

func (r *clickableContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *clickableContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *clickableContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *clickableContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *clickableContentRenderer) Destroy() {}
