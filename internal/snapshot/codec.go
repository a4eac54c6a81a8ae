package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// Encode serializes entities into a GameRecord. Every entity must carry
// a Runtime component; records are ordered by Runtime.Index so repeated
// saves of the same state produce identical output.
func Encode(game string, types *component.Types, entities []*ecs.Entity) (*GameRecord, error) {
	type indexed struct {
		index  int
		record EntityRecord
	}
	rows := make([]indexed, 0, len(entities))
	for _, e := range entities {
		rt, err := ecs.Get[component.Runtime](e, types.Runtime)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", e, err)
		}
		rec := EntityRecord{Name: rt.Name}
		for _, t := range e.ComponentTypes() {
			c, err := e.Get(t)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", e, err)
			}
			data, err := json.Marshal(c)
			if err != nil {
				return nil, fmt.Errorf("encode %s of %s: %w", t.Name(), e, err)
			}
			rec.Components = append(rec.Components, ComponentRecord{Name: t.Name(), Data: data})
		}
		rows = append(rows, indexed{index: rt.Index, record: rec})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].index < rows[j].index })

	out := &GameRecord{Name: game, SavedAt: time.Now().UTC()}
	for _, row := range rows {
		out.Entities = append(out.Entities, row.record)
	}
	return out, nil
}

// Decode rebuilds the entities of rec inside ctx and returns them in
// record order. A component name the registry does not know means the
// record is corrupt and decoding fails. Decode is all or nothing: on
// error every entity it created is destroyed again.
func Decode(rec *GameRecord, reg *ecs.Registry, ctx *ecs.Context) ([]*ecs.Entity, error) {
	created := make([]*ecs.Entity, 0, len(rec.Entities))
	fail := func(err error) ([]*ecs.Entity, error) {
		for _, e := range created {
			_ = ctx.DestroyEntity(e)
		}
		return nil, err
	}

	for _, er := range rec.Entities {
		e := ctx.CreateEntity()
		created = append(created, e)
		e.SetName(er.Name)
		for _, cr := range er.Components {
			t, ok := reg.ByName(cr.Name)
			if !ok {
				return fail(fmt.Errorf("decode %q: entity %q has unknown component %q", rec.Name, er.Name, cr.Name))
			}
			c, err := t.NewFromJSON(cr.Data)
			if err != nil {
				return fail(fmt.Errorf("decode %q: entity %q: %w", rec.Name, er.Name, err))
			}
			if err := e.Set(t, c); err != nil {
				return fail(fmt.Errorf("decode %q: entity %q: %w", rec.Name, er.Name, err))
			}
		}
	}
	return created, nil
}
