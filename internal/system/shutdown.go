package system

import (
	"sync"

	"go.uber.org/zap"
)

// ShutdownSystem closes the planner when the pipelines tear down. The
// same instance is registered in every pipeline; the planner closes
// once no matter how many containers tear down.
type ShutdownSystem struct {
	deps *Deps
	once sync.Once
}

func NewShutdownSystem(deps *Deps) *ShutdownSystem {
	return &ShutdownSystem{deps: deps}
}

func (s *ShutdownSystem) TearDown() {
	s.once.Do(func() {
		if err := s.deps.Planner.Close(); err != nil {
			s.deps.Log.Warn("planner close failed", zap.Error(err))
		}
	})
}
