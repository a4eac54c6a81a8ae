package world

// EntityKind classifies a managed entity by its marker component.
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindWorld
	KindStage
	KindActor
)

func (k EntityKind) String() string {
	switch k {
	case KindWorld:
		return "world"
	case KindStage:
		return "stage"
	case KindActor:
		return "actor"
	default:
		return "unknown"
	}
}
