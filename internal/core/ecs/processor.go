package ecs

import (
	"context"
	"fmt"
)

// The four phase capabilities. A processor implements any subset; the
// container dispatches each phase to whichever processors declare it.
// Initialize and Execute may block on external calls and take a context
// for that reason; Cleanup and TearDown never block.
type (
	InitializeProcessor interface {
		Initialize(ctx context.Context) error
	}
	ExecuteProcessor interface {
		Execute(ctx context.Context) error
	}
	CleanupProcessor interface {
		Cleanup()
	}
	TearDownProcessor interface {
		TearDown()
	}
)

// reactivable is satisfied by ReactiveProcessor and by anything embedding
// one, which is how the container finds reactive members without knowing
// concrete types.
type reactivable interface {
	Activate()
	Deactivate()
	Clear()
}

// Processors runs registered processors phase by phase in registration
// order, one at a time. Later processors read state written by earlier
// ones in the same phase, so the sequential order is part of the
// contract. A Processors container implements all four phases itself and
// can be registered inside another container.
type Processors struct {
	name       string
	initialize []InitializeProcessor
	execute    []ExecuteProcessor
	cleanup    []CleanupProcessor
	tearDown   []TearDownProcessor
}

func NewProcessors(name string) *Processors {
	return &Processors{name: name}
}

func (p *Processors) Name() string { return p.name }

func (p *Processors) String() string {
	return fmt.Sprintf("Processors(%s)", p.name)
}

// Add registers proc in every phase list whose capability it implements
// and returns p for chaining.
func (p *Processors) Add(proc any) *Processors {
	if ip, ok := proc.(InitializeProcessor); ok {
		p.initialize = append(p.initialize, ip)
	}
	if ep, ok := proc.(ExecuteProcessor); ok {
		p.execute = append(p.execute, ep)
	}
	if cp, ok := proc.(CleanupProcessor); ok {
		p.cleanup = append(p.cleanup, cp)
	}
	if tp, ok := proc.(TearDownProcessor); ok {
		p.tearDown = append(p.tearDown, tp)
	}
	return p
}

// Initialize runs the initialize phase in order, stopping at the first
// failure.
func (p *Processors) Initialize(ctx context.Context) error {
	for _, proc := range p.initialize {
		if err := proc.Initialize(ctx); err != nil {
			return fmt.Errorf("%s: initialize %T: %w", p.name, proc, err)
		}
	}
	return nil
}

// Execute runs the execute phase in order, stopping at the first failure.
func (p *Processors) Execute(ctx context.Context) error {
	for _, proc := range p.execute {
		if err := proc.Execute(ctx); err != nil {
			return fmt.Errorf("%s: execute %T: %w", p.name, proc, err)
		}
	}
	return nil
}

// Cleanup runs every cleanup processor in order.
func (p *Processors) Cleanup() {
	for _, proc := range p.cleanup {
		proc.Cleanup()
	}
}

// TearDown runs every teardown processor in order.
func (p *Processors) TearDown() {
	for _, proc := range p.tearDown {
		proc.TearDown()
	}
}

// ActivateReactiveProcessors activates every reactive member of the
// execute phase, recursing into nested containers.
func (p *Processors) ActivateReactiveProcessors() {
	for _, proc := range p.execute {
		if nested, ok := proc.(*Processors); ok {
			nested.ActivateReactiveProcessors()
			continue
		}
		if r, ok := proc.(reactivable); ok {
			r.Activate()
		}
	}
}

// DeactivateReactiveProcessors deactivates every reactive member of the
// execute phase, recursing into nested containers.
func (p *Processors) DeactivateReactiveProcessors() {
	for _, proc := range p.execute {
		if nested, ok := proc.(*Processors); ok {
			nested.DeactivateReactiveProcessors()
			continue
		}
		if r, ok := proc.(reactivable); ok {
			r.Deactivate()
		}
	}
}

// ClearReactiveProcessors drops pending work from every reactive member
// of the execute phase, recursing into nested containers.
func (p *Processors) ClearReactiveProcessors() {
	for _, proc := range p.execute {
		if nested, ok := proc.(*Processors); ok {
			nested.ClearReactiveProcessors()
			continue
		}
		if r, ok := proc.(reactivable); ok {
			r.Clear()
		}
	}
}
