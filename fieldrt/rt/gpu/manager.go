package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gekko3d/pointfield/fieldrt/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// quadCorners is the unit sprite, two triangles in [-1, 1]^2.
var quadCorners = [6][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

type GpuBufferManager struct {
	Device *wgpu.Device

	QuadBuf      *wgpu.Buffer
	PositionsBuf *wgpu.Buffer
	SizesBuf     *wgpu.Buffer
	ParamsBuf    *wgpu.Buffer

	PointCount uint32

	params [core.ParamsSize]byte

	// createBuffer defaults to Device.CreateBuffer.
	createBuffer func(*wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

func NewGpuBufferManager(device *wgpu.Device) (*GpuBufferManager, error) {
	m := &GpuBufferManager{Device: device, createBuffer: device.CreateBuffer}

	quad := unsafe.Slice((*byte)(unsafe.Pointer(&quadCorners[0])), int(unsafe.Sizeof(quadCorners)))
	if _, err := m.ensureBuffer("PointQuadVB", &m.QuadBuf, quad, wgpu.BufferUsageVertex, 0); err != nil {
		return nil, err
	}

	var err error
	m.ParamsBuf, err = m.createBuffer(&wgpu.BufferDescriptor{
		Label: "FieldParamsUB",
		Size:  core.ParamsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		m.Release()
		return nil, fmt.Errorf("creating FieldParamsUB: %w", err)
	}
	return m, nil
}

// ensureBuffer grows buf when data does not fit and writes data into it.
// It reports whether the buffer was recreated. On failure buf is left nil.
func (m *GpuBufferManager) ensureBuffer(name string, buf **wgpu.Buffer, data []byte, usage wgpu.BufferUsage, headroom int) (bool, error) {
	neededSize := uint64(len(data) + headroom)
	if neededSize%4 != 0 {
		neededSize += 4 - (neededSize % 4)
	}

	current := *buf
	if current == nil || current.GetSize() < neededSize {
		if current != nil {
			current.Release()
			*buf = nil
		}

		desc := &wgpu.BufferDescriptor{
			Label:            name,
			Size:             neededSize,
			Usage:            usage | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		}
		newBuf, err := m.createBuffer(desc)
		if err != nil {
			return false, fmt.Errorf("creating %s (%d bytes): %w", name, neededSize, err)
		}
		*buf = newBuf

		if len(data) > 0 {
			m.Device.GetQueue().WriteBuffer(*buf, 0, data)
		}
		return true, nil
	}
	if len(data) > 0 {
		m.Device.GetQueue().WriteBuffer(*buf, 0, data)
	}
	return false, nil
}

// UpdateGrid uploads the point positions and sizes as instance streams. On
// error PointCount is zero, so nothing is drawn until a later upload succeeds.
func (m *GpuBufferManager) UpdateGrid(grid *core.PointBuffer) (bool, error) {
	n := grid.Len()
	m.PointCount = 0
	if n == 0 {
		return false, nil
	}

	posBytes := unsafe.Slice((*byte)(unsafe.Pointer(&grid.Positions[0])), n*int(unsafe.Sizeof(mgl32.Vec3{})))
	sizeBytes := unsafe.Slice((*byte)(unsafe.Pointer(&grid.Sizes[0])), n*4)

	posNew, err := m.ensureBuffer("PointPositionsVB", &m.PositionsBuf, posBytes, wgpu.BufferUsageVertex, 0)
	if err != nil {
		return false, err
	}
	sizeNew, err := m.ensureBuffer("PointSizesVB", &m.SizesBuf, sizeBytes, wgpu.BufferUsageVertex, 0)
	if err != nil {
		return false, err
	}
	m.PointCount = uint32(n)
	return posNew || sizeNew, nil
}

// UpdateParams encodes the block and queues a single write of the whole
// uniform. The queue copies the bytes, so the next frame may reuse the array.
func (m *GpuBufferManager) UpdateParams(block *core.ParameterBlock) {
	block.Encode(&m.params)
	m.Device.GetQueue().WriteBuffer(m.ParamsBuf, 0, m.params[:])
}

func (m *GpuBufferManager) Release() {
	for _, b := range []*wgpu.Buffer{m.QuadBuf, m.PositionsBuf, m.SizesBuf, m.ParamsBuf} {
		if b != nil {
			b.Release()
		}
	}
	m.QuadBuf, m.PositionsBuf, m.SizesBuf, m.ParamsBuf = nil, nil, nil, nil
	m.PointCount = 0
}
