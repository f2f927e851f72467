package ember

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gekko3d/ember/emberrt/rt/anim"
	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/fx"
	"github.com/gekko3d/ember/emberrt/rt/sim"
)

type fakePass struct{}

func (fakePass) WriteUniform([]byte) {}
func (fakePass) Dispatch(int)        {}
func (fakePass) Release()            {}

type fakeBackend struct{ count uint32 }

func (b *fakeBackend) BindAnimation(string, string, uint64) (anim.Pass, error) {
	return fakePass{}, nil
}
func (b *fakeBackend) Upload(*core.EmitterUniform) {}
func (b *fakeBackend) Dispatch(int)                {}
func (b *fakeBackend) ParticleCount() uint32       { return b.count }
func (b *fakeBackend) Release()                    {}

type fakeAllocator struct{}

func (fakeAllocator) NewBackend(em *core.EmitterUniform, isLight bool, previous sim.Backend) (sim.Backend, error) {
	return &fakeBackend{count: em.ParticleCount()}, nil
}

type fakeFxPass struct{}

func (fakeFxPass) Write(fx.FxIOUniform, []byte) {}
func (fakeFxPass) Dispatch()                    {}
func (fakeFxPass) Release()                     {}

type fakeFxDevice struct{}

func (fakeFxDevice) NewPass(fx.Kernel, string) (fx.Pass, error) { return fakeFxPass{}, nil }

func newScene(t *testing.T) (*sim.Simulation, *fx.Chain) {
	t.Helper()
	sm := sim.New(fakeAllocator{}, nil)
	chain := fx.NewChain(fakeFxDevice{}, fx.Resolution{Width: 640, Height: 360}, nil)
	require.NoError(t, sm.Import(sim.DefaultScene()))
	for _, e := range fx.DefaultEffects() {
		_, err := chain.Add(e)
		require.NoError(t, err)
	}
	return sm, chain
}
