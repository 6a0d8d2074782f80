package text

import "github.com/gogpu/maplabel/style"

// IconBorder is the transparent border, in atlas pixels, around every icon.
const IconBorder = 1

// ImagePosition locates an icon in the image atlas. Rect includes the border.
type ImagePosition struct {
	Rect       Rect
	PixelRatio float64
	SDF        bool
}

// DisplaySize returns the icon size in CSS pixels, without the border.
func (p ImagePosition) DisplaySize() (w, h float64) {
	ratio := p.PixelRatio
	if ratio == 0 {
		ratio = 1
	}
	return (p.Rect.W - 2*IconBorder) / ratio, (p.Rect.H - 2*IconBorder) / ratio
}

// ImageAtlas maps icon names to atlas positions.
type ImageAtlas map[string]ImagePosition

// PositionedIcon is an icon placed relative to the label anchor.
type PositionedIcon struct {
	Image                    ImagePosition
	Top, Bottom, Left, Right float64
}

// ShapeIcon places image around the anchor according to offset and anchor.
func ShapeIcon(image ImagePosition, offset [2]float64, anchor style.Anchor) PositionedIcon {
	h, v := anchor.Alignment()
	w, ht := image.DisplaySize()
	left := offset[0] - w*h
	top := offset[1] - ht*v
	return PositionedIcon{
		Image:  image,
		Top:    top,
		Bottom: top + ht,
		Left:   left,
		Right:  left + w,
	}
}
