package store

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/veritas-study/veritas/internal/domain"
	"github.com/veritas-study/veritas/internal/srs"
)

// Encoded document shape. It matches what the original application wrote
// to its cloud store: timestamps as epoch millis, dates as ISO strings,
// topics as an array of {id, stats}.

type docProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Church      string `json:"church"`
	Role        string `json:"role"`
	AvatarColor string `json:"avatarColor"`
	Complete    bool   `json:"isProfileComplete"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type docState struct {
	Interval    int     `json:"interval"`
	Ease        float64 `json:"ease"`
	Repetitions int     `json:"repetitions"`
	NextReview  string  `json:"nextReview"`
}

type docStats struct {
	Streak        int                 `json:"streak"`
	LastLoginDate string              `json:"lastLoginDate"`
	LastAccess    int64               `json:"lastAccessTimestamp"`
	CardsToday    int                 `json:"cardsToday"`
	CardsLifetime int                 `json:"cardsLifetime"`
	CardStates    map[string]docState `json:"cardStates"`
	ActivityLog   map[string]int      `json:"activityLog"`
}

type docTopic struct {
	ID    string `json:"id"`
	Stats struct {
		Wrong   int `json:"wrong"`
		Review  int `json:"review"`
		Correct int `json:"correct"`
	} `json:"stats"`
}

type document struct {
	Profile   docProfile `json:"profile"`
	Stats     docStats   `json:"stats"`
	Topics    []docTopic `json:"topics"`
	UpdatedAt string     `json:"updatedAt"`
}

func encodeRecord(rec *domain.Record) ([]byte, error) {
	doc := document{
		Profile: docProfile{
			ID:          rec.Profile.ID,
			Name:        rec.Profile.Name,
			Church:      rec.Profile.Church,
			Role:        rec.Profile.Role,
			AvatarColor: rec.Profile.AvatarColor,
			Complete:    rec.Profile.Complete,
			Email:       rec.Profile.Email,
			Phone:       rec.Profile.Phone,
		},
		Stats: docStats{
			Streak:        rec.Stats.Streak,
			LastLoginDate: rec.Stats.LastLoginDate,
			CardsToday:    rec.Stats.CardsToday,
			CardsLifetime: rec.Stats.CardsLifetime,
			CardStates:    make(map[string]docState, len(rec.Stats.CardStates)),
			ActivityLog:   rec.Stats.ActivityLog,
		},
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if !rec.Stats.LastAccess.IsZero() {
		doc.Stats.LastAccess = rec.Stats.LastAccess.UnixMilli()
	}
	if doc.Stats.ActivityLog == nil {
		doc.Stats.ActivityLog = map[string]int{}
	}

	for id, s := range rec.Stats.CardStates {
		doc.Stats.CardStates[id] = docState{
			Interval:    s.Interval,
			Ease:        s.Ease,
			Repetitions: s.Repetitions,
			NextReview:  s.NextReview.Format("2006-01-02"),
		}
	}

	doc.Topics = []docTopic{}
	for id, ts := range rec.Topics {
		dt := docTopic{ID: id}
		dt.Stats.Wrong = ts.Wrong
		dt.Stats.Review = ts.Review
		dt.Stats.Correct = ts.Correct
		doc.Topics = append(doc.Topics, dt)
	}

	return json.Marshal(doc)
}

// decodeRecord rebuilds a progress record from whatever survives in the
// stored document. Unknown shapes and malformed values degrade to defaults
// rather than erroring out.
func decodeRecord(data []byte) *domain.Record {
	rec := domain.NewRecord("", "")

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return rec
	}

	if p, ok := raw["profile"].(map[string]any); ok {
		rec.Profile.ID = asString(p["id"])
		rec.Profile.Name = asString(p["name"])
		// Keep the fresh-record defaults for fields the document omits.
		if v, ok := p["church"]; ok {
			rec.Profile.Church = asString(v)
		}
		if v, ok := p["role"]; ok {
			rec.Profile.Role = asString(v)
		}
		if v, ok := p["avatarColor"]; ok {
			rec.Profile.AvatarColor = asString(v)
		}
		rec.Profile.Complete = asBool(p["isProfileComplete"])
		rec.Profile.Email = asString(p["email"])
		rec.Profile.Phone = asString(p["phone"])
	}

	if s, ok := raw["stats"].(map[string]any); ok {
		rec.Stats.Streak = asInt(s["streak"])
		rec.Stats.LastLoginDate = asString(s["lastLoginDate"])
		rec.Stats.LastAccess = asMillis(s["lastAccessTimestamp"])
		rec.Stats.CardsToday = asInt(s["cardsToday"])
		rec.Stats.CardsLifetime = asInt(s["cardsLifetime"])

		if states, ok := s["cardStates"].(map[string]any); ok {
			for id, v := range states {
				sv, ok := v.(map[string]any)
				if !ok {
					continue
				}
				rec.Stats.CardStates[id] = domain.SRSState{
					Interval:    asInt(sv["interval"]),
					Ease:        asEase(sv["ease"]),
					Repetitions: asInt(sv["repetitions"]),
					NextReview:  asDate(sv["nextReview"]),
				}
			}
		}

		if log, ok := s["activityLog"].(map[string]any); ok {
			for day, v := range log {
				rec.Stats.ActivityLog[day] = asInt(v)
			}
		}
	}

	// Topics were written as an array of {id, stats} but older documents
	// held an object keyed by id. Accept both.
	switch topics := raw["topics"].(type) {
	case []any:
		for _, v := range topics {
			tv, ok := v.(map[string]any)
			if !ok {
				continue
			}
			id := asString(tv["id"])
			if id == "" {
				continue
			}
			rec.Topics[id] = asTopicStats(tv["stats"])
		}
	case map[string]any:
		for id, v := range topics {
			rec.Topics[id] = asTopicStats(v)
		}
	}

	if t, err := time.Parse(time.RFC3339, asString(raw["updatedAt"])); err == nil {
		rec.UpdatedAt = t
	}

	return rec
}

func asTopicStats(v any) domain.TopicStats {
	sv, ok := v.(map[string]any)
	if !ok {
		return domain.TopicStats{}
	}
	return domain.TopicStats{
		Wrong:   asInt(sv["wrong"]),
		Review:  asInt(sv["review"]),
		Correct: asInt(sv["correct"]),
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// asInt coerces JSON numbers and numeric strings, defaulting to 0.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}

// asEase coerces an ease factor, substituting the scheduler default when
// the value is missing and clamping to the 1.3 floor otherwise.
func asEase(v any) float64 {
	ease := asFloat(v)
	if ease == 0 {
		return srs.DefaultEase
	}
	if ease < 1.3 {
		return 1.3
	}
	return ease
}

func asMillis(v any) time.Time {
	ms := asInt(v)
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// asDate parses a day-granular date, accepting full RFC3339 stamps from
// older documents. Unparseable dates come back zero, i.e. due immediately.
func asDate(v any) time.Time {
	s := asString(v)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
