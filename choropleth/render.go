package choropleth

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/sfomuseum/go-sfomuseum-spots/frame"
	"github.com/sfomuseum/go-sfomuseum-spots/geometry"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const DEFAULT_WIDTH float64 = 10.0

const DEFAULT_HEIGHT float64 = 10.0

const DEFAULT_DPI float64 = 300.0

const DEFAULT_LINE_WIDTH float64 = 0.5

const DEFAULT_TITLE string = "Bản đồ hành chính tỉnh Quảng Ninh (phường/xã)"

const DEFAULT_TITLE_SIZE float64 = 14.0

// The default position of the map (axes) within the figure, as fractions of the figure size measured
// from the bottom left corner.
const (
	axes_left   float64 = 0.125
	axes_right  float64 = 0.9
	axes_bottom float64 = 0.11
	axes_top    float64 = 0.88
)

// Padding added to each side of the data bounds, as a fraction of their extent.
const data_margin float64 = 0.05

// Distance between the top of the map and the title baseline, in points.
const title_pad float64 = 6.0

// Padding added around the map and title when cropping, in inches.
const crop_pad float64 = 0.1

// RenderOptions defines configuration options for rendering a choropleth map.
type RenderOptions struct {
	// The width of the figure, in inches.
	Width float64
	// The height of the figure, in inches.
	Height float64
	// Pixels per inch.
	DPI float64
	// The width of feature boundaries, in points.
	LineWidth float64
	// The title to draw above the map. If empty no title is drawn.
	Title string
	// The size of the title, in points.
	TitleSize float64
}

// DefaultRenderOptions returns a 10 x 10 inch, 300 DPI `RenderOptions` instance with the default title.
func DefaultRenderOptions() *RenderOptions {

	return &RenderOptions{
		Width:     DEFAULT_WIDTH,
		Height:    DEFAULT_HEIGHT,
		DPI:       DEFAULT_DPI,
		LineWidth: DEFAULT_LINE_WIDTH,
		Title:     DEFAULT_TITLE,
		TitleSize: DEFAULT_TITLE_SIZE,
	}
}

// layout maps geographic coordinates to pixels in the final (cropped) image.
type layout struct {
	min_x   float64
	max_y   float64
	scale_x float64
	scale_y float64
	// The origin of the cropped image in figure pixels.
	offset_x float64
	offset_y float64
}

func (l *layout) point(pt orb.Point) (float32, float32) {

	x := (pt[0]-l.min_x)*l.scale_x - l.offset_x
	y := (l.max_y-pt[1])*l.scale_y - l.offset_y

	return float32(x), float32(y)
}

func (l *layout) ring(r orb.Ring) [][2]float32 {

	pts := make([][2]float32, len(r))

	for i, pt := range r {
		x, y := l.point(pt)
		pts[i] = [2]float32{x, y}
	}

	return pts
}

// Render draws the features in 'f' filled with the colours in 'a', outlined in black, beneath an optional
// title. Features which are not marked as filled, or that have no (multi)polygon geometry, are skipped. The
// image is cropped to the map and title plus a small margin.
func Render(ctx context.Context, f *frame.Frame, a *Assignment, opts *RenderOptions) (*image.RGBA, error) {

	if len(a.Filled) != f.Len() {
		return nil, fmt.Errorf("Assignment does not match frame, expected %d features but got %d", f.Len(), len(a.Filled))
	}

	if opts.Width <= 0 || opts.Height <= 0 || opts.DPI <= 0 {
		return nil, fmt.Errorf("Invalid figure size %fx%f at %f DPI", opts.Width, opts.Height, opts.DPI)
	}

	logger := slog.Default()

	fig_w := opts.Width * opts.DPI
	fig_h := opts.Height * opts.DPI

	geoms := f.Geometries()
	drawn := make([]orb.Geometry, 0)

	for i, geom := range geoms {

		if a.Filled[i] {
			drawn = append(drawn, geom)
		}
	}

	bound, ok := geometry.Bounds(drawn...)

	if !ok {
		return nil, fmt.Errorf("Nothing to render, no polygons with an assigned colour")
	}

	// Data limits
	dx := bound.Max[0] - bound.Min[0]
	dy := bound.Max[1] - bound.Min[1]

	if dx == 0 {
		dx = 1e-6
	}

	if dy == 0 {
		dy = 1e-6
	}

	x0 := bound.Min[0] - dx*data_margin
	x1 := bound.Max[0] + dx*data_margin
	y0 := bound.Min[1] - dy*data_margin
	y1 := bound.Max[1] + dy*data_margin

	// Shrink the map to the aspect ratio of the (unprojected) data at its mid latitude, centred in the axes
	mid_lat := (bound.Min[1] + bound.Max[1]) / 2.0
	aspect := 1.0 / math.Cos(mid_lat*math.Pi/180.0)

	data_w := x1 - x0
	data_h := (y1 - y0) * aspect

	box_w := (axes_right - axes_left) * fig_w
	box_h := (axes_top - axes_bottom) * fig_h

	map_w := box_w
	map_h := box_w * data_h / data_w

	if map_h > box_h {
		map_h = box_h
		map_w = box_h * data_w / data_h
	}

	map_left := axes_left*fig_w + (box_w-map_w)/2.0
	map_top := (1.0-axes_top)*fig_h + (box_h-map_h)/2.0

	crop_min_x := map_left
	crop_min_y := map_top
	crop_max_x := map_left + map_w
	crop_max_y := map_top + map_h

	var face font.Face
	var title_x float64
	var title_y float64

	if opts.Title != "" {

		fnt, err := opentype.Parse(goregular.TTF)

		if err != nil {
			return nil, fmt.Errorf("Failed to parse title font, %w", err)
		}

		face, err = opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    opts.TitleSize,
			DPI:     opts.DPI,
			Hinting: font.HintingNone,
		})

		if err != nil {
			return nil, fmt.Errorf("Failed to create title font face, %w", err)
		}

		defer face.Close()

		text_w := fixedToFloat(font.MeasureString(face, opts.Title))
		metrics := face.Metrics()

		title_x = map_left + map_w/2.0 - text_w/2.0
		title_y = map_top - title_pad*opts.DPI/72.0

		crop_min_x = math.Min(crop_min_x, title_x)
		crop_max_x = math.Max(crop_max_x, title_x+text_w)
		crop_min_y = math.Min(crop_min_y, title_y-fixedToFloat(metrics.Ascent))
		crop_max_y = math.Max(crop_max_y, title_y+fixedToFloat(metrics.Descent))
	}

	pad := crop_pad * opts.DPI

	origin_x := math.Floor(crop_min_x - pad)
	origin_y := math.Floor(crop_min_y - pad)

	img_w := int(math.Ceil(crop_max_x+pad) - origin_x)
	img_h := int(math.Ceil(crop_max_y+pad) - origin_y)

	l := &layout{
		min_x:    x0,
		max_y:    y1,
		scale_x:  map_w / data_w,
		scale_y:  map_h / (y1 - y0),
		offset_x: origin_x - map_left,
		offset_y: origin_y - map_top,
	}

	logger.Debug("Render map", "width", img_w, "height", img_h, "features", len(drawn))

	img := image.NewRGBA(image.Rect(0, 0, img_w, img_h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	half_width := float32(opts.LineWidth * opts.DPI / 72.0 / 2.0)

	// Each feature is filled and then outlined, in order, so later features partially cover the
	// outlines of earlier ones along shared boundaries.

	for i, geom := range geoms {

		if !a.Filled[i] {
			continue
		}

		err := ctx.Err()

		if err != nil {
			return nil, err
		}

		for _, poly := range geometry.Polygons(geom) {

			rings := make([][][2]float32, 0)

			for j, r := range poly {

				// Outer rings are counter-clockwise and inner rings clockwise so that holes cancel out
				want := orb.CCW

				if j > 0 {
					want = orb.CW
				}

				if r.Orientation() != want {
					r = r.Clone()
					r.Reverse()
				}

				rings = append(rings, l.ring(r))
			}

			fillRings(img, rings, a.Colors[i])

			if half_width > 0 {
				strokeRings(img, rings, half_width, color.Black)
			}
		}
	}

	if face != nil {

		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(int(math.Round(title_x-origin_x)), int(math.Round(title_y-origin_y))),
		}

		d.DrawString(opts.Title)
	}

	return img, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// pixelBounds returns the integer bounds of 'rings', grown by 'pad' and clipped to 'dst'.
func pixelBounds(dst *image.RGBA, rings [][][2]float32, pad float32) image.Rectangle {

	min_x := float32(math.Inf(1))
	min_y := float32(math.Inf(1))
	max_x := float32(math.Inf(-1))
	max_y := float32(math.Inf(-1))

	for _, r := range rings {
		for _, pt := range r {
			min_x = min(min_x, pt[0])
			min_y = min(min_y, pt[1])
			max_x = max(max_x, pt[0])
			max_y = max(max_y, pt[1])
		}
	}

	if min_x > max_x {
		return image.Rectangle{}
	}

	rect := image.Rect(
		int(math.Floor(float64(min_x-pad))),
		int(math.Floor(float64(min_y-pad))),
		int(math.Ceil(float64(max_x+pad))),
		int(math.Ceil(float64(max_y+pad))),
	)

	return rect.Intersect(dst.Bounds())
}

func fillRings(dst *image.RGBA, rings [][][2]float32, c color.Color) {

	rect := pixelBounds(dst, rings, 1)

	if rect.Empty() {
		return
	}

	ox := float32(rect.Min.X)
	oy := float32(rect.Min.Y)

	z := vector.NewRasterizer(rect.Dx(), rect.Dy())

	for _, r := range rings {

		if len(r) < 3 {
			continue
		}

		z.MoveTo(r[0][0]-ox, r[0][1]-oy)

		for _, pt := range r[1:] {
			z.LineTo(pt[0]-ox, pt[1]-oy)
		}

		z.ClosePath()
	}

	z.Draw(dst, rect, image.NewUniform(c), image.Point{})
}

// strokeRings outlines 'rings' by rasterising a quad along each segment and a square at each vertex. Every
// shape is wound the same way so that overlaps merge rather than cancel.
func strokeRings(dst *image.RGBA, rings [][][2]float32, half_width float32, c color.Color) {

	rect := pixelBounds(dst, rings, half_width+1)

	if rect.Empty() {
		return
	}

	ox := float32(rect.Min.X)
	oy := float32(rect.Min.Y)

	z := vector.NewRasterizer(rect.Dx(), rect.Dy())

	for _, r := range rings {

		for i, p0 := range r {

			x := p0[0] - ox
			y := p0[1] - oy

			z.MoveTo(x-half_width, y+half_width)
			z.LineTo(x+half_width, y+half_width)
			z.LineTo(x+half_width, y-half_width)
			z.LineTo(x-half_width, y-half_width)
			z.ClosePath()

			if i == len(r)-1 {
				continue
			}

			p1 := r[i+1]

			seg_x := p1[0] - p0[0]
			seg_y := p1[1] - p0[1]

			length := float32(math.Hypot(float64(seg_x), float64(seg_y)))

			if length == 0 {
				continue
			}

			nx := -seg_y / length * half_width
			ny := seg_x / length * half_width

			z.MoveTo(p0[0]+nx-ox, p0[1]+ny-oy)
			z.LineTo(p1[0]+nx-ox, p1[1]+ny-oy)
			z.LineTo(p1[0]-nx-ox, p1[1]-ny-oy)
			z.LineTo(p0[0]-nx-ox, p0[1]-ny-oy)
			z.ClosePath()
		}
	}

	z.Draw(dst, rect, image.NewUniform(c), image.Point{})
}
