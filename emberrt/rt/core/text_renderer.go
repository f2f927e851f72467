package core

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const textAtlasSize = 512

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextItem is one block of overlay text. Position is in pixels from the
// top-left corner of the surface.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type GlyphInfo struct {
	UVMin [2]float32
	UVMax [2]float32
	Size  [2]float32
	Off   [2]float32
	Adv   float32
}

type TextRenderer struct {
	AtlasImage *image.Alpha
	Glyphs     map[rune]GlyphInfo
	Face       font.Face
}

// NewDefaultTextRenderer uses the Go Mono face shipped with x/image, so the
// overlay never depends on a font file being present.
func NewDefaultTextRenderer(fontSize float64) (*TextRenderer, error) {
	return NewTextRenderer(gomono.TTF, fontSize)
}

func NewTextRenderer(fontBytes []byte, fontSize float64) (*TextRenderer, error) {
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}

	atlas, glyphs := buildGlyphAtlas(face)
	return &TextRenderer{
		AtlasImage: atlas,
		Glyphs:     glyphs,
		Face:       face,
	}, nil
}

// buildGlyphAtlas packs printable ASCII into rows of a single alpha texture.
func buildGlyphAtlas(face font.Face) (*image.Alpha, map[rune]GlyphInfo) {
	atlas := image.NewAlpha(image.Rect(0, 0, textAtlasSize, textAtlasSize))
	glyphs := make(map[rune]GlyphInfo)

	x, y, rowHeight := 2, 2, 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, _, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := mask.Bounds().Dx(), mask.Bounds().Dy()

		if x+w >= textAtlasSize {
			x = 2
			y += rowHeight + 4
			rowHeight = 0
		}
		if y+h >= textAtlasSize {
			break
		}

		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, mask.Bounds().Min, draw.Src)
		glyphs[r] = GlyphInfo{
			UVMin: [2]float32{float32(x) / textAtlasSize, float32(y) / textAtlasSize},
			UVMax: [2]float32{float32(x+w) / textAtlasSize, float32(y+h) / textAtlasSize},
			Size:  [2]float32{float32(w), float32(h)},
			Off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			Adv:   float32(adv) / 64.0,
		}

		x += w + 4
		rowHeight = max(rowHeight, h)
	}
	return atlas, glyphs
}

// BuildVertices emits two triangles per glyph in clip space.
func (tr *TextRenderer) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	vertices := make([]TextVertex, 0, len(items)*6)
	if screenW <= 0 || screenH <= 0 {
		return vertices
	}

	sw, sh := float32(screenW), float32(screenH)
	metrics := tr.Face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	toClip := func(px, py float32) [2]float32 {
		return [2]float32{px/sw*2.0 - 1.0, 1.0 - py/sh*2.0}
	}

	for _, item := range items {
		scale := item.Scale
		if scale <= 0 {
			scale = 1
		}
		startX := item.Position[0]
		penX := startX
		penY := item.Position[1] + ascent*scale

		for _, r := range item.Text {
			if r == '\n' {
				penX = startX
				penY += lineHeight * scale
				continue
			}
			g, ok := tr.Glyphs[r]
			if !ok {
				continue
			}

			p0 := toClip(penX+g.Off[0]*scale, penY+g.Off[1]*scale)
			p1 := toClip(penX+(g.Off[0]+g.Size[0])*scale, penY+(g.Off[1]+g.Size[1])*scale)
			quad := [6]TextVertex{
				{Pos: [2]float32{p0[0], p0[1]}, UV: [2]float32{g.UVMin[0], g.UVMin[1]}},
				{Pos: [2]float32{p1[0], p0[1]}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}},
				{Pos: [2]float32{p0[0], p1[1]}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}},
				{Pos: [2]float32{p1[0], p0[1]}, UV: [2]float32{g.UVMax[0], g.UVMin[1]}},
				{Pos: [2]float32{p1[0], p1[1]}, UV: [2]float32{g.UVMax[0], g.UVMax[1]}},
				{Pos: [2]float32{p0[0], p1[1]}, UV: [2]float32{g.UVMin[0], g.UVMax[1]}},
			}
			for _, v := range quad {
				v.Color = item.Color
				vertices = append(vertices, v)
			}
			penX += g.Adv * scale
		}
	}
	return vertices
}

func (tr *TextRenderer) GetLineHeight(scale float32) float32 {
	if tr == nil {
		return 0
	}
	return float32(tr.Face.Metrics().Height.Ceil()) * scale
}
