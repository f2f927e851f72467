package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gekko3d/ember/emberrt/rt/fx"
)

const (
	FrameFormat   = wgpu.TextureFormatRGBA16Float
	DepthFormat   = wgpu.TextureFormatDepth32Float
	PresentFormat = wgpu.TextureFormatRGBA8Unorm

	// Each slot stores one channel per layer.
	slotLayers = fx.SlotCount * 4
)

// Targets are the size-dependent textures of a frame: the particle color
// target and its depth, the FX slot array and the presentable image.
type Targets struct {
	Size fx.Resolution

	Frame       *wgpu.Texture
	FrameView   *wgpu.TextureView
	Depth       *wgpu.Texture
	DepthView   *wgpu.TextureView
	Slots       *wgpu.Texture
	SlotsView   *wgpu.TextureView
	Present     *wgpu.Texture
	PresentView *wgpu.TextureView
}

func NewTargets(ctx *Context, size fx.Resolution) (*Targets, error) {
	if size.Empty() {
		return nil, fmt.Errorf("cannot allocate targets of size %s", size)
	}
	t := &Targets{Size: size}
	extent := wgpu.Extent3D{Width: size.Width, Height: size.Height, DepthOrArrayLayers: 1}

	var err error
	if t.Frame, t.FrameView, err = createTexture(ctx, "Frame", extent, FrameFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding, nil); err != nil {
		t.Release()
		return nil, err
	}
	if t.Depth, t.DepthView, err = createTexture(ctx, "Depth", extent, DepthFormat,
		wgpu.TextureUsageRenderAttachment|wgpu.TextureUsageTextureBinding, nil); err != nil {
		t.Release()
		return nil, err
	}

	slotsExtent := extent
	slotsExtent.DepthOrArrayLayers = slotLayers
	if t.Slots, t.SlotsView, err = createTexture(ctx, "FX Slots", slotsExtent, wgpu.TextureFormatR32Float,
		wgpu.TextureUsageStorageBinding|wgpu.TextureUsageCopyDst,
		&wgpu.TextureViewDescriptor{
			Label:           "FX Slots View",
			Format:          wgpu.TextureFormatR32Float,
			Dimension:       wgpu.TextureViewDimension2DArray,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  0,
			ArrayLayerCount: slotLayers,
		}); err != nil {
		t.Release()
		return nil, err
	}

	if t.Present, t.PresentView, err = createTexture(ctx, "Present", extent, PresentFormat,
		wgpu.TextureUsageStorageBinding|wgpu.TextureUsageTextureBinding, nil); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func createTexture(ctx *Context, label string, extent wgpu.Extent3D, format wgpu.TextureFormat, usage wgpu.TextureUsage, view *wgpu.TextureViewDescriptor) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := ctx.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s texture: %w", label, err)
	}
	v, err := tex.CreateView(view)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create %s view: %w", label, err)
	}
	return tex, v, nil
}

func (t *Targets) Release() {
	for _, v := range []*wgpu.TextureView{t.FrameView, t.DepthView, t.SlotsView, t.PresentView} {
		if v != nil {
			v.Release()
		}
	}
	for _, tex := range []*wgpu.Texture{t.Frame, t.Depth, t.Slots, t.Present} {
		if tex != nil {
			tex.Release()
		}
	}
	*t = Targets{Size: t.Size}
}
