package system

// Phase names as they appear on the feed.
const (
	PhaseKickoff = "kickoff"
	PhaseNight   = "night"
	PhaseDay     = "day"
)

// Winner values set by the win check.
const (
	WinnerVillagers  = "villagers"
	WinnerWerewolves = "werewolves"
)

// Match is the bookkeeping all systems share: the turn clock and the
// verdict. The game loop advances Turn; turn 0 is the kickoff, odd
// turns are nights, even turns are days. Systems read the clock and the
// win check sets Winner.
type Match struct {
	Game   string
	Turn   int
	Winner string
}

// Round numbers the night/day cycles from 1. Night N and the day that
// follows it share a round number.
func (m *Match) Round() int {
	if m.Turn <= 0 {
		return 0
	}
	if m.Turn%2 == 1 {
		return (m.Turn + 1) / 2
	}
	return m.Turn / 2
}

func (m *Match) Phase() string {
	switch {
	case m.Turn <= 0:
		return PhaseKickoff
	case m.Turn%2 == 1:
		return PhaseNight
	default:
		return PhaseDay
	}
}

func (m *Match) Over() bool { return m.Winner != "" }
