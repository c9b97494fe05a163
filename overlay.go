package arixtree

import (
	"image/color"
	"unicode/utf8"

	"github.com/charmbracelet/harmonica"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Button labels for each state: what pressing the button will do.
const (
	labelAssemble = "LIGHT UP THE TREE"
	labelScatter  = "SCATTER THE STARS"
)

const (
	titleFadeSeconds = 2
	greetingScale    = 2
	subtitleScale    = 4
	titleGap         = 8
	buttonWidth      = 240
	buttonHeight     = 44
	buttonMargin     = 48
	glyphW, glyphH   = 6, 16 // ebitenutil debug font cell
)

var (
	colorButtonFill   = color.RGBA{R: 2, G: 44, B: 34, A: 200}
	colorButtonBorder = MustHex("#059669")
	colorGreeting     = MustHex("#D1FAE5")
	colorSubtitle     = MustHex("#FFD700")
)

// Overlay draws the greeting, the subtitle under it and the toggle button,
// and turns pointer or key presses into toggles.
type Overlay struct {
	Greeting string
	Subtitle string

	titleTween *gween.Tween
	titleAlpha float64

	hover    harmonica.Spring
	glow     float64
	glowVel  float64
	hovering bool

	button      Rect
	greetingImg *ebiten.Image
	subtitleImg *ebiten.Image
	touchBuf    []ebiten.TouchID
}

// NewOverlay creates an overlay whose titles fade in over two seconds.
func NewOverlay(greeting, subtitle string, tps int) *Overlay {
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return &Overlay{
		Greeting:   greeting,
		Subtitle:   subtitle,
		titleTween: gween.New(0, 1, titleFadeSeconds, ease.OutQuad),
		hover:      harmonica.NewSpring(harmonica.FPS(tps), 6.0, 0.6),
	}
}

// Layout positions the button for a screen of the given size.
func (o *Overlay) Layout(w, h int) {
	o.button = Rect{
		X:      float64(w)/2 - buttonWidth/2,
		Y:      float64(h) - buttonMargin - buttonHeight,
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

// Button returns the button's screen rectangle.
func (o *Overlay) Button() Rect { return o.button }

// TitleAlpha returns the current opacity of the greeting and subtitle.
func (o *Overlay) TitleAlpha() float64 { return o.titleAlpha }

// Update advances the fade-in and hover animations by dt seconds.
func (o *Overlay) Update(dt float64) {
	if o.titleTween != nil {
		v, done := o.titleTween.Update(float32(dt))
		o.titleAlpha = float64(v)
		if done {
			o.titleTween = nil
		}
	}
	target := 0.0
	if o.hovering {
		target = 1
	}
	o.glow, o.glowVel = o.hover.Update(o.glow, o.glowVel, target)
}

// SetPointer records the pointer position for hover feedback.
func (o *Overlay) SetPointer(x, y float64) {
	o.hovering = o.button.Contains(x, y)
}

// Pressed reports whether the toggle was activated this tick: a click or tap
// on the button, or Space/Enter.
func (o *Overlay) Pressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if o.button.Contains(float64(x), float64(y)) {
			return true
		}
	}
	o.touchBuf = inpututil.AppendJustPressedTouchIDs(o.touchBuf[:0])
	for _, id := range o.touchBuf {
		x, y := ebiten.TouchPosition(id)
		if o.button.Contains(float64(x), float64(y)) {
			return true
		}
	}
	return false
}

// Label returns the button text for the given state.
func Label(s TreeState) string {
	if s == TreeShape {
		return labelScatter
	}
	return labelAssemble
}

// textWidth is the unscaled width in pixels of s in the debug font, which
// draws one cell per rune.
func textWidth(s string) int {
	return utf8.RuneCountInString(s) * glyphW
}

// Draw renders the titles and the button for state s.
func (o *Overlay) Draw(screen *ebiten.Image, s TreeState) {
	o.drawTitles(screen)

	b := o.button
	x, y, w, h := float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height)
	vector.FillRect(screen, x, y, w, h, colorButtonFill, true)
	border := colorButtonBorder.Lerp(MustHex("#34D399"), clamp01(o.glow))
	vector.StrokeRect(screen, x, y, w, h, 1+float32(clamp01(o.glow)), border.RGBA(), true)

	label := Label(s)
	tx := int(b.X + b.Width/2 - float64(textWidth(label))/2)
	ty := int(b.Y + b.Height/2 - glyphH/2)
	ebitenutil.DebugPrintAt(screen, label, tx, ty)
}

func (o *Overlay) drawTitles(screen *ebiten.Image) {
	if o.titleAlpha <= 0 {
		return
	}
	if o.Greeting != "" {
		o.greetingImg = textImage(o.greetingImg, o.Greeting)
		o.drawText(screen, o.greetingImg, greetingScale, buttonMargin, colorGreeting)
	}
	if o.Subtitle != "" {
		o.subtitleImg = textImage(o.subtitleImg, o.Subtitle)
		o.drawText(screen, o.subtitleImg, subtitleScale, o.subtitleY(), colorSubtitle)
	}
}

// textImage renders s once into an image sized for the debug font.
func textImage(img *ebiten.Image, s string) *ebiten.Image {
	if img != nil {
		return img
	}
	img = ebiten.NewImage(max(textWidth(s), 1), glyphH)
	ebitenutil.DebugPrint(img, s)
	return img
}

// subtitleY returns the top of the subtitle line. Without a greeting the
// subtitle moves up to take its place.
func (o *Overlay) subtitleY() float64 {
	if o.Greeting == "" {
		return buttonMargin
	}
	return buttonMargin + glyphH*greetingScale + titleGap
}

func (o *Overlay) drawText(screen, img *ebiten.Image, scale int, y float64, c Color) {
	sw := screen.Bounds().Dx()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(sw)/2-float64(img.Bounds().Dx()*scale)/2, y)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), 1)
	op.ColorScale.ScaleAlpha(float32(o.titleAlpha))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, &op)
}
