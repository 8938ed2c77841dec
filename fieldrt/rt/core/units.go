package core

// UnitConverter maps pixel-space tuning values onto the grid plane.
//
// It assumes the x and y pixel-to-world ratios are equal, which holds for the
// orthographic top-down camera. Nothing here checks that.
type UnitConverter struct {
	WorldPerPixel float32
}

// NewUnitConverter derives the ratio from the viewport width in world units
// and the render surface width in pixels. A non-positive pixel width gives a
// zero ratio instead of Inf.
func NewUnitConverter(viewportWidth, sizeWidth float32) UnitConverter {
	if sizeWidth <= 0 {
		return UnitConverter{}
	}
	return UnitConverter{WorldPerPixel: viewportWidth / sizeWidth}
}

func (u UnitConverter) ToWorld(px float32) float32 {
	return px * u.WorldPerPixel
}

func (u UnitConverter) ToPixels(world float32) float32 {
	if u.WorldPerPixel == 0 {
		return 0
	}
	return world / u.WorldPerPixel
}
