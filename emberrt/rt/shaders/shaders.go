package shaders

import (
	_ "embed"
	"strings"
)

//go:embed particle_common.wgsl
var ParticleCommonWGSL string

//go:embed emitter.wgsl
var EmitterWGSL string

//go:embed anim_color.wgsl
var ColorAnimWGSL string

//go:embed anim_force.wgsl
var ForceAnimWGSL string

//go:embed anim_gravity.wgsl
var GravityAnimWGSL string

//go:embed anim_stray.wgsl
var StrayAnimWGSL string

//go:embed particle_render.wgsl
var ParticleRenderWGSL string

//go:embed fx_common.wgsl
var FxCommonWGSL string

//go:embed fx_ingest.wgsl
var FxIngestWGSL string

//go:embed fx_threshold.wgsl
var FxThresholdWGSL string

//go:embed fx_downscale.wgsl
var FxDownscaleWGSL string

//go:embed fx_upscale.wgsl
var FxUpscaleWGSL string

//go:embed fx_blur.wgsl
var FxBlurWGSL string

//go:embed fx_color.wgsl
var FxColorWGSL string

//go:embed fx_blend.wgsl
var FxBlendWGSL string

//go:embed fx_present.wgsl
var FxPresentWGSL string

//go:embed fullscreen.wgsl
var FullscreenWGSL string

//go:embed text.wgsl
var TextWGSL string

// Compose joins shader sources so shared struct and helper declarations can
// live in one file.
func Compose(parts ...string) string {
	return strings.Join(parts, "\n")
}

// Particle prefixes a particle compute or render shader with the shared
// Emitter and Particle declarations.
func Particle(src string) string {
	return Compose(ParticleCommonWGSL, src)
}

// Fx prefixes a post-processing kernel with the slot array helpers.
func Fx(src string) string {
	return Compose(FxCommonWGSL, src)
}
