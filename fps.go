package arixtree

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsWidget shows FPS, TPS and morph progress in the top-left corner,
// refreshed every half second.
type fpsWidget struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newFPSWidget() *fpsWidget {
	// 120x48 fits three lines of the debug font.
	return &fpsWidget{img: ebiten.NewImage(120, 48), lastUpdate: 0.5}
}

func (w *fpsWidget) update(dt, progress float64) {
	w.lastUpdate += dt
	if w.lastUpdate < 0.5 {
		return
	}
	w.lastUpdate = 0

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nMorph: %.2f",
		ebiten.ActualFPS(), ebiten.ActualTPS(), progress))
}

func (w *fpsWidget) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(8, 8)
	screen.DrawImage(w.img, &op)
}
