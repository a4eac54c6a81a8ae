package ecs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/core/ecs"
)

// phaseRecorder implements all four phases and records every call into a
// shared log.
type phaseRecorder struct {
	name string
	log  *[]string
}

func (p *phaseRecorder) Initialize(context.Context) error {
	*p.log = append(*p.log, p.name+".initialize")
	return nil
}

func (p *phaseRecorder) Execute(context.Context) error {
	*p.log = append(*p.log, p.name+".execute")
	return nil
}

func (p *phaseRecorder) Cleanup() {
	*p.log = append(*p.log, p.name+".cleanup")
}

func (p *phaseRecorder) TearDown() {
	*p.log = append(*p.log, p.name+".teardown")
}

type executeOnly struct {
	name string
	log  *[]string
}

func (p *executeOnly) Execute(context.Context) error {
	*p.log = append(*p.log, p.name+".execute")
	return nil
}

type failingProcessor struct {
	err error
}

func (p *failingProcessor) Initialize(context.Context) error { return p.err }
func (p *failingProcessor) Execute(context.Context) error    { return p.err }

func TestProcessorsPhaseOrdering(t *testing.T) {
	log := &[]string{}
	ps := ecs.NewProcessors("test").
		Add(&phaseRecorder{name: "p1", log: log}).
		Add(&phaseRecorder{name: "p2", log: log}).
		Add(&phaseRecorder{name: "p3", log: log})

	ctx := context.Background()
	require.NoError(t, ps.Initialize(ctx))
	require.NoError(t, ps.Execute(ctx))
	ps.Cleanup()
	ps.TearDown()

	assert.Equal(t, []string{
		"p1.initialize", "p2.initialize", "p3.initialize",
		"p1.execute", "p2.execute", "p3.execute",
		"p1.cleanup", "p2.cleanup", "p3.cleanup",
		"p1.teardown", "p2.teardown", "p3.teardown",
	}, *log)
}

func TestProcessorsDispatchByCapability(t *testing.T) {
	log := &[]string{}
	ps := ecs.NewProcessors("test").
		Add(&executeOnly{name: "exec", log: log}).
		Add(&phaseRecorder{name: "full", log: log})

	ctx := context.Background()
	require.NoError(t, ps.Initialize(ctx))
	require.NoError(t, ps.Execute(ctx))
	ps.Cleanup()

	assert.Equal(t, []string{
		"full.initialize",
		"exec.execute", "full.execute",
		"full.cleanup",
	}, *log)
}

func TestProcessorsNestedOrdering(t *testing.T) {
	log := &[]string{}
	inner := ecs.NewProcessors("inner").
		Add(&phaseRecorder{name: "p2", log: log}).
		Add(&phaseRecorder{name: "p3", log: log})
	outer := ecs.NewProcessors("outer").
		Add(&phaseRecorder{name: "p1", log: log}).
		Add(inner).
		Add(&phaseRecorder{name: "p4", log: log})

	require.NoError(t, outer.Execute(context.Background()))
	assert.Equal(t, []string{"p1.execute", "p2.execute", "p3.execute", "p4.execute"}, *log)
}

func TestProcessorsInitializeStopsAtFirstFailure(t *testing.T) {
	log := &[]string{}
	boom := errors.New("boom")
	ps := ecs.NewProcessors("test").
		Add(&phaseRecorder{name: "p1", log: log}).
		Add(&failingProcessor{err: boom}).
		Add(&phaseRecorder{name: "p3", log: log})

	err := ps.Initialize(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"p1.initialize"}, *log)
}

func TestProcessorsExecuteStopsAtFirstFailure(t *testing.T) {
	log := &[]string{}
	boom := errors.New("boom")
	ps := ecs.NewProcessors("test").
		Add(&phaseRecorder{name: "p1", log: log}).
		Add(&failingProcessor{err: boom}).
		Add(&phaseRecorder{name: "p3", log: log})

	err := ps.Execute(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"p1.execute"}, *log)
}

func TestProcessorsReactiveToggleRecursesIntoNested(t *testing.T) {
	c, tt := newTestContext(t)

	sys := newCountingSystem(c, tt)
	inner := ecs.NewProcessors("inner").Add(sys)
	outer := ecs.NewProcessors("outer").Add(inner)

	ctx := context.Background()

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))
	require.NoError(t, outer.Execute(ctx))
	assert.Equal(t, 1, sys.batches)

	// Deactivated systems collect nothing.
	outer.DeactivateReactiveProcessors()
	e2 := c.CreateEntity()
	require.NoError(t, e2.Add(tt.Position, 1, 1))
	require.NoError(t, outer.Execute(ctx))
	assert.Equal(t, 1, sys.batches)

	// Reactivated systems resume collecting from that point on.
	outer.ActivateReactiveProcessors()
	e3 := c.CreateEntity()
	require.NoError(t, e3.Add(tt.Position, 2, 2))
	require.NoError(t, outer.Execute(ctx))
	assert.Equal(t, 2, sys.batches)

	// Clearing drops pending work without unsubscribing.
	e4 := c.CreateEntity()
	require.NoError(t, e4.Add(tt.Position, 3, 3))
	outer.ClearReactiveProcessors()
	require.NoError(t, outer.Execute(ctx))
	assert.Equal(t, 2, sys.batches)
}
