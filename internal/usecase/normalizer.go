package usecase

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
	"github.com/neilpattanaik/ParlayWatch/internal/domain/scoreboard"
	"github.com/neilpattanaik/ParlayWatch/internal/platform/logging"
)

var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Normalizer turns raw feed events into matches, defaulting every optional field.
type Normalizer struct {
	logger    *logging.Logger
	validator *validator.Validate
	metrics   AggregationMetrics
}

func NewNormalizer(logger *logging.Logger, metrics AggregationMetrics) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	if metrics == nil {
		metrics = nopAggregationMetrics{}
	}

	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if text, ok := field.Interface().(scoreboard.FlexText); ok {
			return text.String()
		}
		return nil
	}, scoreboard.FlexText(""))

	return &Normalizer{
		logger:    logger,
		validator: v,
		metrics:   metrics,
	}
}

// Normalize returns a malformed-record error only when the event has no id.
// Every other defect is defaulted and the match is kept.
func (n *Normalizer) Normalize(ctx context.Context, raw scoreboard.RawEvent) (match.Match, error) {
	if err := n.validator.StructCtx(ctx, raw); err != nil {
		return match.Match{}, newMalformedRecord(unitEvent, err)
	}

	completed, detail := raw.Status()
	out := match.Match{
		ID:        raw.ID.String(),
		Name:      string(raw.Name),
		Completed: completed,
		Status:    detail,
		HomeTeam:  normalizeTeam(raw, "home"),
		AwayTeam:  normalizeTeam(raw, "away"),
	}

	date, err := parseEventDate(raw.Date.String())
	if err != nil {
		n.metrics.RecordMalformed(unitDate)
		n.logger.WarnContext(ctx, "event date unparseable, using zero instant",
			"event_id", out.ID,
			"date", raw.Date.String(),
			"error", newMalformedRecord(unitDate, err),
		)
	}
	out.Date = date

	return out, nil
}

func normalizeTeam(raw scoreboard.RawEvent, side string) match.Team {
	competitor, ok := raw.Competitor(side)
	if !ok {
		return match.UnknownTeam()
	}

	team := match.Team{
		Name:  competitor.DisplayName.String(),
		Score: parseScore(competitor.Score.String()),
	}
	if team.Name == "" {
		team.Name = match.UnknownTeamName
	}
	if logo := competitor.Logo.String(); logo != "" {
		team.Logo = &logo
	}
	return team
}

// parseScore reads an optional sign and the leading decimal digits; anything
// else yields 0. "12 (4)" is 12.
func parseScore(text string) int {
	text = strings.TrimSpace(text)
	end := 0
	if end < len(text) && (text[end] == '+' || text[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}

	value, err := strconv.Atoi(text[:end])
	if err != nil {
		return 0
	}
	return value
}

func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range eventDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
