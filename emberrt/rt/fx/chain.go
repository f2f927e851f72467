package fx

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gekko3d/ember/emberrt/rt/core"
	"github.com/gekko3d/ember/emberrt/rt/registry"
)

// Pass is one dispatch of a kernel against the slot array.
type Pass interface {
	Write(io FxIOUniform, params []byte)
	Dispatch()
	Release()
}

// Device creates passes bound to the current slot array. Passes must be
// recreated after the array is reallocated.
type Device interface {
	NewPass(kernel Kernel, label string) (Pass, error)
}

// Node is one entry of the chain: an effect, its UI control and its passes.
type Node struct {
	core.Control
	Effect Effect

	kernels []Kernel
	passes  []Pass
}

func (n *Node) Tag() string { return n.Effect.Tag() }

// Passes is the number of dispatches the node currently records.
func (n *Node) Passes() int { return len(n.passes) }

func (n *Node) release() {
	for _, p := range n.passes {
		p.Release()
	}
	n.passes = nil
	n.kernels = nil
}

// sync plans the node for size and uploads every uniform. Passes are rebuilt
// when forced or when the plan's kernel sequence changed.
func (n *Node) sync(dev Device, size Resolution, rebuild bool) error {
	steps, err := n.Effect.Plan(size)
	if err != nil {
		return fmt.Errorf("plan %s: %w", n.Tag(), err)
	}

	if rebuild || !sameKernels(n.kernels, steps) {
		n.release()
		for i, s := range steps {
			pass, err := dev.NewPass(s.Kernel, fmt.Sprintf("%s/%d %s", n.Tag(), i, s.Kernel))
			if err != nil {
				n.release()
				return fmt.Errorf("create %s pass: %w", n.Tag(), err)
			}
			n.passes = append(n.passes, pass)
			n.kernels = append(n.kernels, s.Kernel)
		}
	}

	for i, s := range steps {
		n.passes[i].Write(s.IO, s.Params)
	}
	return nil
}

func sameKernels(kernels []Kernel, steps []Step) bool {
	if len(kernels) != len(steps) {
		return false
	}
	for i, s := range steps {
		if kernels[i] != s.Kernel {
			return false
		}
	}
	return true
}

// Chain runs its enabled nodes strictly in order each frame.
type Chain struct {
	device Device
	size   Resolution
	nodes  []*Node
	view   uint32
	log    core.Logger
}

func NewChain(device Device, size Resolution, log core.Logger) *Chain {
	if log == nil {
		log = core.NopLogger()
	}
	return &Chain{device: device, size: size, log: log}
}

func (c *Chain) Nodes() []*Node { return c.nodes }

func (c *Chain) Size() Resolution { return c.size }

// Add validates effect, builds its passes and appends it to the chain.
func (c *Chain) Add(effect Effect) (*Node, error) {
	if err := effect.Validate(); err != nil {
		return nil, fmt.Errorf("add %s: %w", effect.Tag(), err)
	}
	n := &Node{Control: core.NewControl(), Effect: effect}
	if err := n.sync(c.device, c.size, true); err != nil {
		return nil, err
	}
	c.nodes = append(c.nodes, n)
	return n, nil
}

// Sweep applies pending list actions and releases deleted nodes.
func (c *Chain) Sweep() {
	var deleted []*Node
	for _, n := range c.nodes {
		if n.SelectedAction == core.ActionDelete {
			deleted = append(deleted, n)
		}
	}
	c.nodes = core.UpdateList(c.nodes)
	for _, n := range deleted {
		n.release()
	}
}

// Update re-plans every enabled node so parameter edits reach the GPU.
// A node whose parameters became invalid is disabled.
func (c *Chain) Update() {
	for _, n := range c.nodes {
		if !n.Enabled {
			continue
		}
		err := n.Effect.Validate()
		if err == nil {
			err = n.sync(c.device, c.size, false)
		}
		if err != nil {
			c.log.Warnf("fx %s disabled: %v", n.Tag(), err)
			n.Enabled = false
		}
	}
}

// Resize recomputes every IO against the new base size and rebuilds every
// pass, since the slot array they were bound to is gone. A node that cannot
// be rebuilt drops its passes and is disabled; the rest still resize.
func (c *Chain) Resize(size Resolution) error {
	c.size = size
	var errs []error
	for _, n := range c.nodes {
		if err := n.sync(c.device, size, true); err != nil {
			n.release()
			n.Enabled = false
			c.log.Warnf("fx %s disabled: %v", n.Tag(), err)
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("resize to %s: %w", size, err)
	}
	return nil
}

func (c *Chain) Compute() {
	for _, n := range c.nodes {
		if !n.Enabled {
			continue
		}
		for _, p := range n.passes {
			p.Dispatch()
		}
	}
}

// View is the slot presented on screen.
func (c *Chain) View() uint32 { return c.view }

func (c *Chain) SetView(slot uint32) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	c.view = slot
	return nil
}

func (c *Chain) Export() ([]registry.Record, error) {
	out := make([]registry.Record, 0, len(c.nodes))
	for _, n := range c.nodes {
		rec, err := registry.NewControlledRecord(n.Tag(), n.Effect, n.Control)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Import replaces the chain's nodes with the imported records. On failure
// the existing chain is left untouched.
func (c *Chain) Import(reg *registry.Registry[Effect], records []registry.Record) error {
	effects, err := reg.ImportAll(records, func(tag string) {
		c.log.Warnf("skipping unknown effect %q", tag)
	})
	if err != nil {
		return err
	}

	nodes := make([]*Node, 0, len(effects))
	for _, e := range effects {
		n := &Node{Control: core.NewControl(), Effect: e}
		if err := n.sync(c.device, c.size, true); err != nil {
			for _, built := range nodes {
				built.release()
			}
			return err
		}
		nodes = append(nodes, n)
	}

	c.Release()
	c.nodes = nodes
	return nil
}

// MarshalEffects encodes the chain as an indented JSON array of records.
func (c *Chain) MarshalEffects() ([]byte, error) {
	records, err := c.Export()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(records, "", "  ")
}

// UnmarshalEffects imports a JSON array of effect records read from name.
func (c *Chain) UnmarshalEffects(reg *registry.Registry[Effect], name string, data []byte) error {
	var records []registry.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("effects %s: %w", name, err)
	}
	if err := c.Import(reg, records); err != nil {
		return fmt.Errorf("effects %s: %w", name, err)
	}
	return nil
}

// DefaultEffects is the chain used when nothing is stored: a single bloom
// over the particle frame.
func DefaultEffects() []Effect {
	bloom := DefaultBloom()
	return []Effect{&bloom}
}

func (c *Chain) Release() {
	for _, n := range c.nodes {
		n.release()
	}
	c.nodes = nil
}

func effectFactory[E any, EP interface {
	*E
	Effect
}](tag string, defaults func() E) registry.Factory[Effect] {
	return registry.Factory[Effect]{
		Tag: tag,
		New: func() Effect {
			e := defaults()
			return EP(&e)
		},
		Import: func(data json.RawMessage) (Effect, error) {
			e, err := registry.Decode(data, defaults(), func(e *E) error { return EP(e).Validate() })
			if err != nil {
				return nil, err
			}
			return EP(&e), nil
		},
	}
}

// Registry returns a registry holding every effect.
func Registry() *registry.Registry[Effect] {
	return registry.New[Effect]().
		Register(effectFactory[Bloom](TagBloom, DefaultBloom)).
		Register(effectFactory[GaussianBlur](TagGaussianBlur, DefaultGaussianBlur)).
		Register(effectFactory[ColorProcessing](TagColorProcessing, DefaultColorProcessing)).
		Register(effectFactory[Blend](TagBlend, DefaultBlend))
}
