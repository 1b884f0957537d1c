package field

// Mode is the visual state of the field.
type Mode int

const (
	Idle Mode = iota
	Analyzing
	Complete
)

func (m Mode) String() string {
	switch m {
	case Analyzing:
		return "analyzing"
	case Complete:
		return "complete"
	default:
		return "idle"
	}
}

// ModeFor derives the mode from the two host flags. Analyzing wins when both are set.
func ModeFor(analyzing, complete bool) Mode {
	if analyzing {
		return Analyzing
	}
	if complete {
		return Complete
	}
	return Idle
}

// Input is the host snapshot consumed by one Tick.
type Input struct {
	Analyzing bool
	Complete  bool
	PointerX  float64
	PointerY  float64
}

// Stop is one colour stop of a radial gradient.
type Stop struct {
	Offset float64
	Color  RGBA
}

// Gradient is a radial gradient centred at (CX, CY) covering the whole canvas.
type Gradient struct {
	CX, CY, Radius float64
	Stops          []Stop
}

// Sprite is a rotated square with a soft glow.
type Sprite struct {
	X, Y  float64
	Size  float64 // Half side length
	Angle float64 // Degrees
	Glow  float64 // Blur radius
	Color RGBA
}

// Link is a line between two particles, coloured From at (X0, Y0) and To at (X1, Y1).
type Link struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	From, To       RGBA
}

// Frame holds the render commands produced by one Tick. Its slices are reused by the
// next Tick, so hosts must finish drawing before ticking again.
type Frame struct {
	Width, Height float64
	Mode          Mode
	Progress      float64
	Count         uint64
	Background    []Gradient
	Sprites       []Sprite
	Links         []Link
}

// background builds the gradient layers for the current mode, bottom layer first.
func background(mode Mode, w, h float64, frame uint64, progress, rate float64) []Gradient {
	cx, cy := w/2, h/2
	switch mode {
	case Analyzing:
		p := pulse(frame, rate)
		return []Gradient{{CX: cx, CY: cy, Radius: w / 2, Stops: []Stop{
			{0, RGBA{R: 180 * p / 255, A: 1}},
			{1, RGBA{A: 0.95}},
		}}}
	case Complete:
		g := func(base float64) float64 { return base * progress / 255 }
		return []Gradient{
			{CX: cx, CY: cy, Radius: w / 2, Stops: []Stop{
				{0, RGBA{R: 50.0 / 255, G: g(180), B: 50.0 / 255, A: 1}},
				{0.2, RGBA{R: 40.0 / 255, G: g(160), B: 40.0 / 255, A: 0.95}},
				{0.4, RGBA{R: 30.0 / 255, G: g(140), B: 30.0 / 255, A: 0.9}},
				{0.6, RGBA{R: 20.0 / 255, G: g(120), B: 20.0 / 255, A: 0.85}},
				{0.8, RGBA{R: 10.0 / 255, G: g(100), B: 10.0 / 255, A: 0.8}},
				{1, RGBA{R: 5.0 / 255, G: g(80), B: 5.0 / 255, A: 0.75}},
			}},
			{CX: cx, CY: cy, Radius: w, Stops: []Stop{
				{0, RGB255(100, 255, 100, 0.25*progress)},
				{0.3, RGB255(50, 255, 50, 0.2*progress)},
				{0.6, RGB255(0, 255, 0, 0.15*progress)},
				{1, RGBA{}},
			}},
			{CX: cx, CY: cy, Radius: w / 2, Stops: []Stop{
				{0, RGB255(0, 255, 0, 0.15*progress)},
				{1, RGBA{}},
			}},
		}
	default:
		return []Gradient{{CX: cx, CY: cy, Radius: w / 2, Stops: []Stop{
			{0, RGB255(15, 23, 42, 1)},
			{1, RGB255(15, 23, 42, 0.8)},
		}}}
	}
}
