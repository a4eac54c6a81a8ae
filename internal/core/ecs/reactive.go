package ecs

import (
	"context"
	"fmt"
)

// Trigger pairs a matcher with the group transition that should wake a
// reactive processor.
type Trigger struct {
	Matcher Matcher
	Event   GroupEvent
}

// Reaction is the behavior a ReactiveProcessor drives: which transitions
// to watch, which collected entities to keep, and what to do with a
// batch. React receives entities that passed Filter since the previous
// drain, each at most once.
type Reaction interface {
	Triggers() []Trigger
	Filter(e *Entity) bool
	React(ctx context.Context, entities []*Entity) error
}

// ReactiveProcessor adapts a Reaction to the execute phase. It resolves
// each trigger to a group on the given context, collects transitioned
// entities between ticks, and hands the filtered batch to React once per
// Execute. Construction activates the collector immediately.
type ReactiveProcessor struct {
	collector *Collector
	reaction  Reaction
	buffer    []*Entity
}

func NewReactiveProcessor(c *Context, r Reaction) *ReactiveProcessor {
	col := NewCollector()
	for _, tr := range r.Triggers() {
		col.Add(c.Group(tr.Matcher), tr.Event)
	}
	col.Activate()
	return &ReactiveProcessor{collector: col, reaction: r}
}

// Execute drains the collector. The pending set is cleared before React
// runs, so entities that transition during a blocking React are collected
// for the next tick, and a React failure skips its batch rather than
// replaying it.
func (p *ReactiveProcessor) Execute(ctx context.Context) error {
	if !p.collector.Collected() {
		return nil
	}
	for _, e := range p.collector.Entities() {
		if p.reaction.Filter(e) {
			p.buffer = append(p.buffer, e)
		}
	}
	p.collector.ClearCollectedEntities()
	if len(p.buffer) == 0 {
		return nil
	}
	batch := p.buffer
	p.buffer = nil
	return p.reaction.React(ctx, batch)
}

// Activate resumes collecting.
func (p *ReactiveProcessor) Activate() { p.collector.Activate() }

// Deactivate stops collecting and drops pending entities.
func (p *ReactiveProcessor) Deactivate() { p.collector.Deactivate() }

// Clear drops pending entities without unsubscribing.
func (p *ReactiveProcessor) Clear() { p.collector.ClearCollectedEntities() }

func (p *ReactiveProcessor) String() string {
	return fmt.Sprintf("ReactiveProcessor(%T)", p.reaction)
}
