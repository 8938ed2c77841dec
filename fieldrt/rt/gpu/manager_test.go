package gpu

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/gekko3d/pointfield/fieldrt/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceStrides(t *testing.T) {
	// Float32x3 / Float32 attribute layouts in NewPointsRenderPass rely on these.
	assert.Equal(t, uintptr(12), unsafe.Sizeof(mgl32.Vec3{}))
	assert.Equal(t, uintptr(48), unsafe.Sizeof(quadCorners))
}

func TestQuadCornersCoverSprite(t *testing.T) {
	var area float32
	for i := 0; i < len(quadCorners); i += 3 {
		a, b, c := quadCorners[i], quadCorners[i+1], quadCorners[i+2]
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		assert.Greater(t, cross, float32(0), "triangle %d must be counter-clockwise", i/3)
		area += cross / 2
	}
	assert.Equal(t, float32(4), area)
}

func TestUploadGridReportsBufferFailure(t *testing.T) {
	var labels []string
	m := &GpuBufferManager{
		PointCount: 7,
		createBuffer: func(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
			labels = append(labels, desc.Label)
			return nil, errors.New("out of memory")
		},
	}
	pass := &PointsRenderPass{Buffers: m}

	grid := core.BuildGrid(core.GridSpec{ViewportWidth: 10, ViewportHeight: 8, Density: 0.5})
	err := pass.UploadGrid(grid)

	require.Error(t, err)
	assert.ErrorContains(t, err, "PointPositionsVB")
	assert.ErrorContains(t, err, "out of memory")
	assert.Equal(t, []string{"PointPositionsVB"}, labels)
	assert.Zero(t, m.PointCount)
	assert.Nil(t, m.PositionsBuf)
}

func TestUploadGridRejectsEmptyGrid(t *testing.T) {
	pass := &PointsRenderPass{Buffers: &GpuBufferManager{}}
	assert.Error(t, pass.UploadGrid(&core.PointBuffer{}))
}
