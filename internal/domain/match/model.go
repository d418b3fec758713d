package match

import "time"

// UnknownTeamName is shown when the feed omits a competitor.
const UnknownTeamName = "Unknown"

type Team struct {
	Name  string  `json:"name"`
	Score int     `json:"score"`
	Logo  *string `json:"logo"`
}

func UnknownTeam() Team {
	return Team{Name: UnknownTeamName}
}

// Match is one normalized scoreboard event. ID is unique within a feed response.
type Match struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Status    string    `json:"status"`
	HomeTeam  Team      `json:"homeTeam"`
	AwayTeam  Team      `json:"awayTeam"`
}

type Side string

const (
	SideNone Side = ""
	SideHome Side = "home"
	SideAway Side = "away"
)

// Winner reports the higher-scoring side of a completed match.
func (m Match) Winner() Side {
	if !m.Completed {
		return SideNone
	}
	switch {
	case m.HomeTeam.Score > m.AwayTeam.Score:
		return SideHome
	case m.AwayTeam.Score > m.HomeTeam.Score:
		return SideAway
	default:
		return SideNone
	}
}

type League struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Matches Partition `json:"matches"`
}

type Sport struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Leagues []League `json:"leagues"`
}

// Flatten lists every match of the tree, league by league, live then upcoming then completed.
func Flatten(sports []Sport) []Match {
	total := 0
	for _, sport := range sports {
		for _, league := range sport.Leagues {
			total += league.Matches.Len()
		}
	}

	out := make([]Match, 0, total)
	for _, sport := range sports {
		for _, league := range sport.Leagues {
			out = append(out, league.Matches.Live...)
			out = append(out, league.Matches.Upcoming...)
			out = append(out, league.Matches.Completed...)
		}
	}
	return out
}
