// Package scoreboard describes the upstream scoreboard feed as it arrives on the
// wire. Every field is optional; defaults are applied by the normalizer.
package scoreboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Sports, leagues and events stay raw until visited so one malformed record
// only costs its own unit. Below the record level every field tolerates a
// wrong JSON type by decoding to its zero value; only a missing id drops an
// event.
type RawFeed struct {
	Sports []json.RawMessage `json:"sports"`
}

type RawSport struct {
	ID      FlexText `json:"id"`
	Name    FlexText `json:"name"`
	Leagues RawList  `json:"leagues"`
}

type RawLeague struct {
	ID     FlexText `json:"id"`
	Name   FlexText `json:"name"`
	Events RawList  `json:"events"`
}

type RawEvent struct {
	ID          FlexText       `json:"id" validate:"required"`
	Name        FlexText       `json:"name"`
	Date        FlexText       `json:"date"`
	FullStatus  *RawFullStatus `json:"fullStatus"`
	Competitors CompetitorList `json:"competitors"`
}

type RawFullStatus struct {
	Type *RawStatusType `json:"type"`
}

type RawStatusType struct {
	Completed FlexBool `json:"completed"`
	Detail    FlexText `json:"detail"`
}

type RawCompetitor struct {
	HomeAway    FlexText `json:"homeAway"`
	DisplayName FlexText `json:"displayName"`
	Score       FlexText `json:"score"`
	Logo        FlexText `json:"logo"`
}

func (s *RawFullStatus) UnmarshalJSON(data []byte) error {
	type plain RawFullStatus
	var out plain
	if err := decodeLenient(data, '{', &out); err != nil {
		return err
	}
	*s = RawFullStatus(out)
	return nil
}

func (s *RawStatusType) UnmarshalJSON(data []byte) error {
	type plain RawStatusType
	var out plain
	if err := decodeLenient(data, '{', &out); err != nil {
		return err
	}
	*s = RawStatusType(out)
	return nil
}

func (c *RawCompetitor) UnmarshalJSON(data []byte) error {
	type plain RawCompetitor
	var out plain
	if err := decodeLenient(data, '{', &out); err != nil {
		return err
	}
	*c = RawCompetitor(out)
	return nil
}

// RawList is a JSON array kept element by element. Anything but an array is
// an empty list.
type RawList []json.RawMessage

func (l *RawList) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := decodeLenient(data, '[', &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// CompetitorList is empty unless the value is an array. Non-object entries
// become blank competitors that match no side.
type CompetitorList []RawCompetitor

func (l *CompetitorList) UnmarshalJSON(data []byte) error {
	var items []RawCompetitor
	if err := decodeLenient(data, '[', &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// FlexBool reads true/false literals and their quoted forms. Anything else is false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	value := strings.Trim(strings.TrimSpace(string(data)), `"`)
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	*b = FlexBool(err == nil && parsed)
	return nil
}

// FlexText accepts a JSON string or number and keeps its text. Any other
// JSON value decodes to the empty string.
type FlexText string

func (f *FlexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text: %w", err)
		}
		*f = FlexText(s)
	case c == '-' || (c >= '0' && c <= '9'):
		*f = FlexText(data)
	default:
		*f = ""
	}
	return nil
}

func (f FlexText) String() string {
	return strings.TrimSpace(string(f))
}

// Status returns completed and detail, defaulting to false and "".
func (e RawEvent) Status() (bool, string) {
	if e.FullStatus == nil || e.FullStatus.Type == nil {
		return false, ""
	}
	return bool(e.FullStatus.Type.Completed), string(e.FullStatus.Type.Detail)
}

// Competitor returns the first competitor playing the given side.
func (e RawEvent) Competitor(side string) (RawCompetitor, bool) {
	for _, c := range e.Competitors {
		if strings.EqualFold(c.HomeAway.String(), side) {
			return c, true
		}
	}
	return RawCompetitor{}, false
}

func DecodeFeed(raw []byte) (RawFeed, error) {
	var feed RawFeed
	if err := sonic.Unmarshal(raw, &feed); err != nil {
		return RawFeed{}, fmt.Errorf("decode scoreboard feed: %w", err)
	}
	return feed, nil
}

func DecodeSport(raw json.RawMessage) (RawSport, error) {
	var sport RawSport
	if err := decodeObject(raw, &sport); err != nil {
		return RawSport{}, fmt.Errorf("decode sport: %w", err)
	}
	return sport, nil
}

func DecodeLeague(raw json.RawMessage) (RawLeague, error) {
	var league RawLeague
	if err := decodeObject(raw, &league); err != nil {
		return RawLeague{}, fmt.Errorf("decode league: %w", err)
	}
	return league, nil
}

func DecodeEvent(raw json.RawMessage) (RawEvent, error) {
	var event RawEvent
	if err := decodeObject(raw, &event); err != nil {
		return RawEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

// decodeLenient leaves target untouched when data is not of the kind opened by
// open, so a mistyped field defaults instead of failing its record.
func decodeLenient(data []byte, open byte, target any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != open {
		return nil
	}
	return sonic.Unmarshal(trimmed, target)
}

func decodeObject(raw json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected object")
	}
	return sonic.Unmarshal(trimmed, target)
}
