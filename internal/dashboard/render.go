package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

const (
	clockLayout  = "15:04"
	winnerMarker = " *"
)

// Renderer writes plain-text pages. Times are shown in Location.
type Renderer struct {
	Location *time.Location
}

func NewRenderer(loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{Location: loc}
}

// RenderGames writes the All Games page. Selected matches are flagged with "+".
func (r *Renderer) RenderGames(w io.Writer, sports []match.Sport, selection *Selection) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	selected := map[string]struct{}{}
	if selection != nil {
		selected = selection.Set()
	}

	if len(sports) == 0 {
		_, _ = buf.WriteString("No games available.\n")
	}
	for _, sport := range sports {
		_, _ = fmt.Fprintf(buf, "== %s ==\n", sport.Name)
		for _, league := range sport.Leagues {
			_, _ = fmt.Fprintf(buf, "-- %s --\n", league.Name)
			r.writeSection(buf, "Live", league.Matches.Live, selected, r.liveLine)
			r.writeSection(buf, "Upcoming", league.Matches.Upcoming, selected, r.upcomingLine)
			r.writeSection(buf, "Completed", league.Matches.Completed, selected, r.completedGameLine)
		}
	}

	_, err := w.Write(buf.B)
	return err
}

// RenderDashboard writes the selected matches grouped by bucket.
func (r *Renderer) RenderDashboard(w io.Writer, partition match.Partition) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("== Dashboard ==\n")
	if partition.Len() == 0 {
		_, _ = buf.WriteString("No matches selected.\n")
	}
	r.writeSection(buf, "Live", partition.Live, nil, r.liveLine)
	r.writeSection(buf, "Upcoming", partition.Upcoming, nil, r.upcomingLine)
	r.writeSection(buf, "Completed", partition.Completed, nil, r.completedDashboardLine)

	_, err := w.Write(buf.B)
	return err
}

type lineFunc func(buf *bytebufferpool.ByteBuffer, m match.Match)

func (r *Renderer) writeSection(buf *bytebufferpool.ByteBuffer, title string, matches []match.Match, selected map[string]struct{}, line lineFunc) {
	if len(matches) == 0 {
		return
	}
	_, _ = buf.WriteString(title)
	_, _ = buf.WriteString(":\n")
	for _, m := range matches {
		if _, ok := selected[m.ID]; ok {
			_, _ = buf.WriteString("  + ")
		} else {
			_, _ = buf.WriteString("    ")
		}
		_, _ = fmt.Fprintf(buf, "[%s] ", m.ID)
		line(buf, m)
		_ = buf.WriteByte('\n')
	}
}

func (r *Renderer) liveLine(buf *bytebufferpool.ByteBuffer, m match.Match) {
	writeScoreline(buf, m)
	if m.Status != "" {
		_, _ = fmt.Fprintf(buf, " (%s)", m.Status)
	}
}

func (r *Renderer) upcomingLine(buf *bytebufferpool.ByteBuffer, m match.Match) {
	_, _ = fmt.Fprintf(buf, "%s  starts %s", m.Name, r.clock(m.Date))
}

func (r *Renderer) completedGameLine(buf *bytebufferpool.ByteBuffer, m match.Match) {
	writeScoreline(buf, m)
	_, _ = fmt.Fprintf(buf, " (%s - %s)", m.Status, r.clock(m.Date))
}

func (r *Renderer) completedDashboardLine(buf *bytebufferpool.ByteBuffer, m match.Match) {
	writeScoreline(buf, m)
	_, _ = fmt.Fprintf(buf, " Start Time: %s", r.clock(m.Date))
}

func (r *Renderer) clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.In(r.Location).Format(clockLayout)
}

func writeScoreline(buf *bytebufferpool.ByteBuffer, m match.Match) {
	winner := m.Winner()
	writeTeam(buf, m.AwayTeam, winner == match.SideAway)
	_, _ = buf.WriteString(" @ ")
	writeTeam(buf, m.HomeTeam, winner == match.SideHome)
}

func writeTeam(buf *bytebufferpool.ByteBuffer, team match.Team, won bool) {
	_, _ = buf.WriteString(team.Name)
	_ = buf.WriteByte(' ')
	_, _ = buf.WriteString(strconv.Itoa(team.Score))
	if won {
		_, _ = buf.WriteString(winnerMarker)
	}
}
