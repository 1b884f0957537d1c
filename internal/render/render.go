// Package render draws field frames with Ebitengine.
package render

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/resume-glow/internal/field"
	"github.com/olivierh59500/resume-glow/internal/raster"
)

// BackgroundScale is the resolution of the rasterised background relative to the canvas.
const BackgroundScale = 0.125

// glowRings is the number of translucent rings approximating a blurred shadow.
const glowRings = 3

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(image.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// Renderer keeps the GPU-side background texture between frames.
type Renderer struct {
	bgPixels *image.RGBA
	bgImage  *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewRenderer creates an empty renderer; textures are allocated on first Draw.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Draw renders f onto dst. A nil destination or frame draws nothing.
func (r *Renderer) Draw(dst *ebiten.Image, f *field.Frame) {
	if dst == nil || f == nil {
		return
	}
	r.drawBackground(dst, f)
	for i := range f.Sprites {
		r.drawSprite(dst, &f.Sprites[i])
	}
	for i := range f.Links {
		drawLink(dst, &f.Links[i])
	}
}

// drawBackground rasterises the gradients at low resolution and stretches them over dst.
func (r *Renderer) drawBackground(dst *ebiten.Image, f *field.Frame) {
	w := int(math.Ceil(f.Width * BackgroundScale))
	h := int(math.Ceil(f.Height * BackgroundScale))
	if w <= 0 || h <= 0 {
		return
	}
	if r.bgPixels == nil || r.bgPixels.Rect.Dx() != w || r.bgPixels.Rect.Dy() != h {
		if r.bgImage != nil {
			r.bgImage.Deallocate()
		}
		r.bgPixels = image.NewRGBA(image.Rect(0, 0, w, h))
		r.bgImage = ebiten.NewImage(w, h)
	}

	raster.Rasterize(r.bgPixels, f.Background, BackgroundScale)
	r.bgImage.WritePixels(r.bgPixels.Pix)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(1/BackgroundScale, 1/BackgroundScale)
	dst.DrawImage(r.bgImage, op)
}

// drawSprite draws the glow rings, then the rotated square on top.
func (r *Renderer) drawSprite(dst *ebiten.Image, s *field.Sprite) {
	c := s.Color
	if s.Glow > 0 {
		for i := glowRings; i >= 1; i-- {
			radius := float32(s.Size + s.Glow*float64(i)/glowRings)
			ring := c.WithAlpha(c.A * 0.12 * float64(glowRings-i+1) / glowRings)
			vector.DrawFilledCircle(dst, float32(s.X), float32(s.Y), radius, ring.NRGBA(), true)
		}
	}

	rad := s.Angle * math.Pi / 180
	sin, cos := math.Sincos(rad)
	corner := func(dx, dy float64) (float32, float32) {
		return float32(s.X + dx*cos - dy*sin), float32(s.Y + dx*sin + dy*cos)
	}

	var path vector.Path
	path.MoveTo(corner(-s.Size, -s.Size))
	path.LineTo(corner(s.Size, -s.Size))
	path.LineTo(corner(s.Size, s.Size))
	path.LineTo(corner(-s.Size, s.Size))
	path.Close()

	r.vertices, r.indices = path.AppendVerticesAndIndicesForFilling(r.vertices[:0], r.indices[:0])
	for i := range r.vertices {
		r.vertices[i].SrcX = 1
		r.vertices[i].SrcY = 1
		r.vertices[i].ColorR = float32(c.R)
		r.vertices[i].ColorG = float32(c.G)
		r.vertices[i].ColorB = float32(c.B)
		r.vertices[i].ColorA = float32(c.A)
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	dst.DrawTriangles(r.vertices, r.indices, whiteSubImage, op)
}

// drawLink strokes the line in two halves, one per endpoint colour.
func drawLink(dst *ebiten.Image, l *field.Link) {
	if l.Width <= 0 {
		return
	}
	mx, my := (l.X0+l.X1)/2, (l.Y0+l.Y1)/2
	w := float32(l.Width)
	vector.StrokeLine(dst, float32(l.X0), float32(l.Y0), float32(mx), float32(my), w, l.From.NRGBA(), true)
	vector.StrokeLine(dst, float32(mx), float32(my), float32(l.X1), float32(l.Y1), w, l.To.NRGBA(), true)
}
