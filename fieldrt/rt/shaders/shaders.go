package shaders

import (
	_ "embed"
)

// PointsWGSL holds the displacement (vs_main) and shading (fs_main) stages
// for the instanced point grid.
//
//go:embed points.wgsl
var PointsWGSL string
