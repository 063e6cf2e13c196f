//go:build cgo

package main

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// runWindow opens a desktop window showing the editor's frame. It blocks
// until the window closes or Escape is pressed.
func runWindow(e *editor, title string, scale int) error {
	g := &viewer{e: e}
	b := e.Frame().Bounds()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(b.Max.X*scale, b.Max.Y*scale)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type viewer struct {
	e     *editor
	img   *image.RGBA
	fbImg *ebiten.Image
}

func (g *viewer) Update() error {
	e := g.e
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if s := string(ebiten.AppendInputChars(nil)); s != "" {
		e.Insert(s)
	}
	for key, action := range map[ebiten.Key]func(){
		ebiten.KeyEnter:      func() { e.Insert("\n") },
		ebiten.KeyBackspace:  e.Backspace,
		ebiten.KeyDelete:     e.Delete,
		ebiten.KeyArrowLeft:  e.Left,
		ebiten.KeyArrowRight: e.Right,
		ebiten.KeyHome:       e.Home,
		ebiten.KeyEnd:        e.End,
		ebiten.KeyTab:        e.CycleStyle,
	} {
		if inpututil.IsKeyJustPressed(key) {
			action()
		}
	}
	_, err := e.Render()
	return err
}

func (g *viewer) Draw(screen *ebiten.Image) {
	f := g.e.Frame()
	b := f.Bounds()
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, b.Max.X, b.Max.Y))
		g.fbImg = ebiten.NewImage(b.Max.X, b.Max.Y)
	}
	fillRGBA(g.img, f)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.e.Frame().Bounds()
	return b.Max.X, b.Max.Y
}
