package arixtree

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// screenshotQueue collects labels requested during a frame and writes one
// PNG per label once the frame has been drawn.
type screenshotQueue struct {
	dir    string
	labels []string
	now    func() time.Time
}

// Screenshot queues a labeled capture of the next drawn frame.
func (q *screenshotQueue) Screenshot(label string) {
	q.labels = append(q.labels, label)
}

// Pending reports how many captures are queued.
func (q *screenshotQueue) Pending() int { return len(q.labels) }

// flush captures screen for every queued label. Failures are logged and the
// queue is cleared either way.
func (q *screenshotQueue) flush(screen *ebiten.Image) {
	if len(q.labels) == 0 {
		return
	}
	defer func() { q.labels = q.labels[:0] }()

	if err := os.MkdirAll(q.dir, 0o755); err != nil {
		log.Printf("[arixtree] screenshot: mkdir %s: %v", q.dir, err)
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, w, h)

	now := time.Now
	if q.now != nil {
		now = q.now
	}
	stamp := now().Format("20060102_150405")
	for _, label := range q.labels {
		path := filepath.Join(q.dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			log.Printf("[arixtree] screenshot: %v", err)
			continue
		}
		log.Printf("[arixtree] screenshot saved to %s", path)
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps [A-Za-z0-9.-] and replaces everything else with
// underscores. Empty labels become "unlabeled".
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
