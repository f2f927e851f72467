// Package fx is the post-processing chain. Effects read and write slots of a
// shared indexed texture array; every pass addresses its slots and their
// resolutions through an FxIOUniform.
package fx

import (
	"errors"
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
)

// SlotCount is the number of intermediate texture slots. A separate depth
// texture sits beside them.
const SlotCount = 16

// FxIOUniformSize is the byte size of the packed FxIOUniform.
const FxIOUniformSize = 32

var ErrSlotRange = errors.New("texture slot out of range")

type Resolution struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Half rounds up, so odd sizes never lose their last row or column.
func (r Resolution) Half() Resolution {
	return Resolution{Width: (r.Width + 1) / 2, Height: (r.Height + 1) / 2}
}

func (r Resolution) Empty() bool { return r.Width == 0 || r.Height == 0 }

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.Width, r.Height) }

type FxIOUniform struct {
	InIdx        uint32
	OutIdx       uint32
	InDownscale  uint32
	OutDownscale uint32
	InSize       Resolution
	OutSize      Resolution
}

//	struct FxIO {
//	  in_idx, out_idx, in_downscale, out_downscale: u32,
//	  in_size: vec2<u32>,
//	  out_size: vec2<u32>,
//	}
func (io FxIOUniform) Bytes() []byte {
	w := core.NewUniformWriter(FxIOUniformSize)
	w.U32(0, io.InIdx).U32(4, io.OutIdx).U32(8, io.InDownscale).U32(12, io.OutDownscale)
	w.U32(16, io.InSize.Width).U32(20, io.InSize.Height)
	w.U32(24, io.OutSize.Width).U32(28, io.OutSize.Height)
	return w.Bytes()
}

func checkSlot(idx uint32) error {
	if idx >= SlotCount {
		return fmt.Errorf("%w: %d (have %d)", ErrSlotRange, idx, SlotCount)
	}
	return nil
}

// SameIO is a full resolution pass from in to out.
func SameIO(in, out uint32, size Resolution) FxIOUniform {
	return FxIOUniform{
		InIdx:        in,
		OutIdx:       out,
		InDownscale:  1,
		OutDownscale: 1,
		InSize:       size,
		OutSize:      size,
	}
}

// DownscaleList builds k passes starting at slot start. Pass j reads slot
// start+j at 1/2^j of size and writes slot start+j+1 at half that.
func DownscaleList(start uint32, size Resolution, k int) ([]FxIOUniform, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := checkSlot(start + uint32(k)); err != nil {
		return nil, fmt.Errorf("downscale chain of %d from slot %d: %w", k, start, err)
	}
	return downscale(start, 1, size, k), nil
}

func downscale(idx, factor uint32, in Resolution, k int) []FxIOUniform {
	if k == 0 {
		return nil
	}
	out := in.Half()
	io := FxIOUniform{
		InIdx:        idx,
		OutIdx:       idx + 1,
		InDownscale:  factor,
		OutDownscale: factor * 2,
		InSize:       in,
		OutSize:      out,
	}
	return append([]FxIOUniform{io}, downscale(idx+1, factor*2, out, k-1)...)
}

// UpscaleList mirrors a downscale list: reversed, with the in and out sides
// of every entry swapped. Upscale step j reads exactly what the mirrored
// downscale step wrote.
func UpscaleList(down []FxIOUniform) []FxIOUniform {
	up := make([]FxIOUniform, len(down))
	for i, d := range down {
		up[len(down)-1-i] = FxIOUniform{
			InIdx:        d.OutIdx,
			OutIdx:       d.InIdx,
			InDownscale:  d.OutDownscale,
			OutDownscale: d.InDownscale,
			InSize:       d.OutSize,
			OutSize:      d.InSize,
		}
	}
	return up
}
