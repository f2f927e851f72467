package fx

import (
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/shaders"
)

const (
	TagBloom           = "bloom"
	TagGaussianBlur    = "gaussian_blur"
	TagColorProcessing = "color_processing"
	TagBlend           = "blend"
)

// Kernel identifies one compute shader of the chain.
type Kernel int

const (
	KernelThreshold Kernel = iota
	KernelDownscale
	KernelUpscale
	KernelBlur
	KernelColor
	KernelBlend
)

func (k Kernel) String() string {
	switch k {
	case KernelThreshold:
		return "threshold"
	case KernelDownscale:
		return "downscale"
	case KernelUpscale:
		return "upscale"
	case KernelBlur:
		return "blur"
	case KernelColor:
		return "color"
	case KernelBlend:
		return "blend"
	}
	return fmt.Sprintf("kernel(%d)", int(k))
}

func (k Kernel) Shader() string {
	switch k {
	case KernelThreshold:
		return shaders.Fx(shaders.FxThresholdWGSL)
	case KernelDownscale:
		return shaders.Fx(shaders.FxDownscaleWGSL)
	case KernelUpscale:
		return shaders.Fx(shaders.FxUpscaleWGSL)
	case KernelBlur:
		return shaders.Fx(shaders.FxBlurWGSL)
	case KernelColor:
		return shaders.Fx(shaders.FxColorWGSL)
	default:
		return shaders.Fx(shaders.FxBlendWGSL)
	}
}

// HasParams reports whether the kernel binds a parameter uniform.
func (k Kernel) HasParams() bool { return k != KernelDownscale }

// ParamsSize is the byte size of the kernel's parameter uniform.
func (k Kernel) ParamsSize() uint64 {
	switch k {
	case KernelDownscale:
		return 0
	case KernelBlur:
		return blurParamsSize
	case KernelColor:
		return 32
	}
	return 16
}

// Step is one planned dispatch.
type Step struct {
	Kernel Kernel
	IO     FxIOUniform
	Params []byte
}

// Effect is implemented by Bloom, GaussianBlur, ColorProcessing and Blend.
type Effect interface {
	Tag() string
	Validate() error
	// Plan lays out the effect's dispatches for a base resolution.
	Plan(size Resolution) ([]Step, error)
	effect()
}

func mixParams(t float32) []byte {
	return core.NewUniformWriter(16).F32(0, t).Bytes()
}

// Grade is the color processing parameter set shared by ColorProcessing and
// the bloom tonemap pass.
type Grade struct {
	Exposure   float32      `json:"exposure"`
	Contrast   float32      `json:"contrast"`
	Saturation float32      `json:"saturation"`
	Gamma      float32      `json:"gamma"`
	Operator   ToneOperator `json:"operator"`
}

func DefaultGrade() Grade {
	return Grade{Exposure: 1, Contrast: 1, Saturation: 1, Gamma: 1, Operator: ToneACES}
}

func (g Grade) Validate() error {
	if g.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive, got %g", g.Gamma)
	}
	if g.Exposure < 0 || g.Saturation < 0 || g.Contrast < 0 {
		return fmt.Errorf("exposure, contrast and saturation must not be negative")
	}
	if !g.Operator.valid() {
		return fmt.Errorf("unknown tonemap operator %q", g.Operator)
	}
	return nil
}

func (g Grade) params() []byte {
	return core.NewUniformWriter(32).
		F32(0, g.Exposure).F32(4, g.Contrast).F32(8, g.Saturation).F32(12, g.Gamma).
		U32(16, g.Operator.code()).
		Bytes()
}

func checkMix(name string, v float32) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must lie in [0, 1], got %g", name, v)
	}
	return nil
}

// Bloom extracts bright texels, runs them down and back up the mip chain,
// grades the result and blends it onto the source slot.
type Bloom struct {
	SourceIdx  uint32  `json:"source_idx"`
	ScratchIdx uint32  `json:"scratch_idx"`
	Mips       int     `json:"mips"`
	Threshold  float32 `json:"threshold"`
	Knee       float32 `json:"knee"`
	IOMix      float32 `json:"io_mix"`
	Intensity  float32 `json:"intensity"`
	Grade      Grade   `json:"grade"`
}

func DefaultBloom() Bloom {
	return Bloom{
		SourceIdx:  0,
		ScratchIdx: 1,
		Mips:       5,
		Threshold:  0.8,
		Knee:       0.4,
		IOMix:      0.6,
		Intensity:  0.35,
		Grade:      DefaultGrade(),
	}
}

func (*Bloom) Tag() string { return TagBloom }
func (*Bloom) effect()     {}

func (b *Bloom) Validate() error {
	if b.Mips < 1 {
		return fmt.Errorf("bloom needs at least one mip, got %d", b.Mips)
	}
	if err := checkSlot(b.SourceIdx); err != nil {
		return err
	}
	if err := checkSlot(b.ScratchIdx + uint32(b.Mips)); err != nil {
		return fmt.Errorf("bloom scratch slots: %w", err)
	}
	if b.SourceIdx >= b.ScratchIdx && b.SourceIdx <= b.ScratchIdx+uint32(b.Mips) {
		return fmt.Errorf("bloom source slot %d overlaps scratch slots %d..%d", b.SourceIdx, b.ScratchIdx, b.ScratchIdx+uint32(b.Mips))
	}
	if b.Threshold < 0 || b.Knee < 0 {
		return fmt.Errorf("bloom threshold and knee must not be negative")
	}
	if err := checkMix("io_mix", b.IOMix); err != nil {
		return err
	}
	if err := checkMix("intensity", b.Intensity); err != nil {
		return err
	}
	return b.Grade.Validate()
}

func (b *Bloom) Plan(size Resolution) ([]Step, error) {
	down, err := DownscaleList(b.ScratchIdx, size, b.Mips)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, 3+2*len(down))
	steps = append(steps, Step{
		Kernel: KernelThreshold,
		IO:     SameIO(b.SourceIdx, b.ScratchIdx, size),
		Params: core.NewUniformWriter(16).F32(0, b.Threshold).F32(4, b.Knee).Bytes(),
	})
	for _, io := range down {
		steps = append(steps, Step{Kernel: KernelDownscale, IO: io})
	}
	for _, io := range UpscaleList(down) {
		steps = append(steps, Step{Kernel: KernelUpscale, IO: io, Params: mixParams(b.IOMix)})
	}
	steps = append(steps,
		Step{Kernel: KernelColor, IO: SameIO(b.ScratchIdx, b.ScratchIdx, size), Params: b.Grade.params()},
		// in=bloom, out=source: intensity 1 leaves pure bloom in the source slot.
		Step{Kernel: KernelBlend, IO: SameIO(b.ScratchIdx, b.SourceIdx, size), Params: mixParams(1 - b.Intensity)},
	)
	return steps, nil
}

// GaussianBlur is a separable blur: horizontal into Scratch, vertical into Out.
type GaussianBlur struct {
	InIdx      uint32  `json:"in_idx"`
	ScratchIdx uint32  `json:"scratch_idx"`
	OutIdx     uint32  `json:"out_idx"`
	Radius     int     `json:"radius"`
	Sigma      float32 `json:"sigma"`
}

func DefaultGaussianBlur() GaussianBlur {
	return GaussianBlur{InIdx: 0, ScratchIdx: 8, OutIdx: 0, Radius: 4, Sigma: 2}
}

func (*GaussianBlur) Tag() string { return TagGaussianBlur }
func (*GaussianBlur) effect()     {}

func (g *GaussianBlur) Validate() error {
	for _, idx := range []uint32{g.InIdx, g.ScratchIdx, g.OutIdx} {
		if err := checkSlot(idx); err != nil {
			return err
		}
	}
	if g.ScratchIdx == g.InIdx || g.ScratchIdx == g.OutIdx {
		return fmt.Errorf("blur scratch slot %d must differ from in and out", g.ScratchIdx)
	}
	if g.Radius < 1 || g.Radius > MaxBlurRadius {
		return fmt.Errorf("blur radius must lie in [1, %d], got %d", MaxBlurRadius, g.Radius)
	}
	if g.Sigma <= 0 {
		return fmt.Errorf("blur sigma must be positive, got %g", g.Sigma)
	}
	return nil
}

const blurParamsSize = 80

//	struct BlurParams {
//	  direction: vec2<f32>, radius: u32, _pad: u32,
//	  weights: array<vec4<f32>, 4>,
//	}
func (g *GaussianBlur) params(dx, dy float32) []byte {
	w := core.NewUniformWriter(blurParamsSize)
	w.F32(0, dx).F32(4, dy).U32(8, uint32(g.Radius))
	w.Vec(16, GaussianKernel(g.Radius, g.Sigma)...)
	return w.Bytes()
}

func (g *GaussianBlur) Plan(size Resolution) ([]Step, error) {
	return []Step{
		{Kernel: KernelBlur, IO: SameIO(g.InIdx, g.ScratchIdx, size), Params: g.params(1, 0)},
		{Kernel: KernelBlur, IO: SameIO(g.ScratchIdx, g.OutIdx, size), Params: g.params(0, 1)},
	}, nil
}

// ColorProcessing grades and tonemaps one slot into another.
type ColorProcessing struct {
	InIdx  uint32 `json:"in_idx"`
	OutIdx uint32 `json:"out_idx"`
	Grade  Grade  `json:"grade"`
}

func DefaultColorProcessing() ColorProcessing {
	return ColorProcessing{InIdx: 0, OutIdx: 0, Grade: DefaultGrade()}
}

func (*ColorProcessing) Tag() string { return TagColorProcessing }
func (*ColorProcessing) effect()     {}

func (c *ColorProcessing) Validate() error {
	if err := checkSlot(c.InIdx); err != nil {
		return err
	}
	if err := checkSlot(c.OutIdx); err != nil {
		return err
	}
	return c.Grade.Validate()
}

func (c *ColorProcessing) Plan(size Resolution) ([]Step, error) {
	return []Step{{Kernel: KernelColor, IO: SameIO(c.InIdx, c.OutIdx, size), Params: c.Grade.params()}}, nil
}

// Blend lerps slot In into slot Out by IOMix and stores the result in Out.
type Blend struct {
	InIdx  uint32  `json:"in_idx"`
	OutIdx uint32  `json:"out_idx"`
	IOMix  float32 `json:"io_mix"`
}

func DefaultBlend() Blend {
	return Blend{InIdx: 1, OutIdx: 0, IOMix: 0.5}
}

func (*Blend) Tag() string { return TagBlend }
func (*Blend) effect()     {}

func (b *Blend) Validate() error {
	if err := checkSlot(b.InIdx); err != nil {
		return err
	}
	if err := checkSlot(b.OutIdx); err != nil {
		return err
	}
	return checkMix("io_mix", b.IOMix)
}

func (b *Blend) Plan(size Resolution) ([]Step, error) {
	return []Step{{Kernel: KernelBlend, IO: SameIO(b.InIdx, b.OutIdx, size), Params: mixParams(b.IOMix)}}, nil
}
