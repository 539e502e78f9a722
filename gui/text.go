package gui

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/oliverbestmann/glare/glm"
)

var face = basicfont.Face7x13

// Label renders text into an overlay texture. The texture is only
// re-rasterized when the text changes.
type Label struct {
	painter *Painter
	id      TextureID
	text    string
	size    image.Point
}

func NewLabel(painter *Painter) *Label {
	return &Label{painter: painter}
}

// SetText updates the label content. Unchanged text is a no-op.
func (l *Label) SetText(text string) error {
	if text == l.text && l.id != 0 {
		return nil
	}

	img := renderText(text)

	if l.id == 0 || img.Bounds().Size() != l.size {
		if l.id != 0 {
			l.painter.FreeTexture(l.id)
			l.id = 0
		}

		id, err := l.painter.AddTexture(img)
		if err != nil {
			return err
		}

		l.id = id
	} else {
		if err := l.painter.SetTexture(l.id, img); err != nil {
			return err
		}
	}

	l.text = text
	l.size = img.Bounds().Size()

	return nil
}

// Primitive returns the textured quad placing the label at pos in
// logical points.
func (l *Label) Primitive(pos glm.Vec2, color glm.Vec4) Primitive {
	w := float32(l.size.X)
	h := float32(l.size.Y)

	return Primitive{
		Texture: l.id,
		Vertices: []Vertex{
			{Pos: pos, UV: glm.Vec2{0, 0}, Color: color},
			{Pos: pos.Add(glm.Vec2{w, 0}), UV: glm.Vec2{1, 0}, Color: color},
			{Pos: pos.Add(glm.Vec2{w, h}), UV: glm.Vec2{1, 1}, Color: color},
			{Pos: pos.Add(glm.Vec2{0, h}), UV: glm.Vec2{0, 1}, Color: color},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// MeasureText returns the pixel size the rasterized text will occupy.
func MeasureText(text string) image.Point {
	lines := strings.Split(text, "\n")

	var width int
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}

	return image.Point{
		X: max(width, 1),
		Y: max(len(lines)*face.Height, 1),
	}
}

// renderText rasterizes white text on a transparent background, one
// line per face height.
func renderText(text string) *image.RGBA {
	size := MeasureText(text)
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))

	drawer := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}

	for i, line := range strings.Split(text, "\n") {
		drawer.Dot = fixed.P(0, i*face.Height+face.Ascent)
		drawer.DrawString(line)
	}

	return img
}
