// Package chat orchestrates the request pipeline: classify the utterance,
// resolve the city and date from conversational context, geocode, fetch the
// weather record, and have the model narrate it.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harshitmangtani02/aitf/internal/llm"
	"github.com/harshitmangtani02/aitf/internal/nlu"
	"github.com/harshitmangtani02/aitf/internal/session"
	"github.com/harshitmangtani02/aitf/internal/weather"
	"github.com/harshitmangtani02/aitf/internal/weather/openmeteo"
)

// ErrMissingLocation is returned by Query when no place name can be pulled
// out of the request at all.
var ErrMissingLocation = errors.New("chat: no location in query")

// Turn is one message of the conversation as sent by the client. History is
// resent whole on every request; nothing conversational is persisted here.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// WeatherProvider is the outbound weather collaborator. Satisfied by
// *openmeteo.Client; stubbed in tests.
type WeatherProvider interface {
	Geocode(ctx context.Context, name string) (weather.Location, error)
	Fetch(ctx context.Context, loc weather.Location, spec nlu.DateSpec) (weather.Record, error)
}

// Service runs the pipeline. Safe for concurrent use; all mutable state lives
// in the session store.
type Service struct {
	llm      llm.Provider
	weather  WeatherProvider
	sessions session.Store

	now func() time.Time
}

func NewService(provider llm.Provider, weatherAPI WeatherProvider, sessions session.Store) *Service {
	return &Service{
		llm:      provider,
		weather:  weatherAPI,
		sessions: sessions,
		now:      time.Now,
	}
}

// SessionID derives a best-effort caller identity from request metadata. It
// is not cryptographically stable; it only needs to correlate turns from the
// same caller without authentication. When no metadata is present at all a
// random ID is issued, which effectively disables continuity for that caller.
func SessionID(forwardedFor, realIP, userAgent string) string {
	ip := forwardedFor
	if ip == "" {
		ip = realIP
	}
	if ip == "" && userAgent == "" {
		return uuid.NewString()
	}
	if ip == "" {
		ip = "unknown"
	}
	if userAgent == "" {
		userAgent = "unknown"
	}
	id := ip + "-" + userAgent
	if len(id) > 50 {
		id = id[:50]
	}
	return id
}

// Reply answers the latest user turn. Every failure path degrades to a
// bilingual canned message; the reply is always non-empty text.
func (s *Service) Reply(ctx context.Context, turns []Turn, language, sessionID string) string {
	if len(turns) == 0 || turns[len(turns)-1].Role != "user" {
		return message(language, keyWelcome)
	}
	utterance := turns[len(turns)-1].Content
	history := toNLUTurns(turns[:len(turns)-1])

	if !nlu.IsWeatherRelated(utterance, language) {
		return message(language, keyOffTopic)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// Session loss only costs follow-up context; the request proceeds.
		log.Printf("chat: session load failed for %s: %v", sessionID, err)
		sess = session.Context{}
	}

	today := s.now()

	spec, err := nlu.ResolveDateContext(utterance, history, previousSpec(sess), today)
	if err != nil {
		if errors.Is(err, nlu.ErrForecastLimit) {
			return message(language, keyForecastLimit)
		}
		log.Printf("chat: date resolution failed: %v", err)
		return message(language, keyApology)
	}
	localDate := spec != nil
	if spec == nil {
		spec = &nlu.DateSpec{Type: nlu.DateCurrent}
	}

	city := nlu.ResolveLocation(utterance, history, sess.LastCity)
	if city == "" {
		// Second chance: let the model pull out what the local patterns
		// could not. Its date answer is re-validated locally.
		analysis, aerr := s.llm.Analyze(ctx, llm.AnalyzeRequest{
			Query:    utterance,
			Language: language,
			LastCity: sess.LastCity,
			LastDate: sess.LastDate,
			Today:    today,
		})
		switch {
		case errors.Is(aerr, llm.ErrMalformedOutput):
			return message(language, keyClarify)
		case aerr != nil:
			log.Printf("chat: analyze call failed: %v", aerr)
		case !analysis.NeedsWeatherData && analysis.ChatResponse != "":
			return analysis.ChatResponse
		default:
			city = analysis.City
			if !localDate && analysis.TargetDate != "" {
				revalidated, derr := nlu.ResolveDate(analysis.TargetDate, today, nil)
				if errors.Is(derr, nlu.ErrForecastLimit) {
					return message(language, keyForecastLimit)
				}
				if derr == nil {
					spec = &revalidated
				}
			}
		}
	}
	if city == "" {
		return message(language, keyMissingLocation)
	}

	loc, err := s.weather.Geocode(ctx, city)
	if err != nil {
		if errors.Is(err, openmeteo.ErrCityNotFound) {
			return message(language, keyCityNotFound)
		}
		log.Printf("chat: geocoding failed for %q: %v", city, err)
		return message(language, keyApology)
	}

	s.saveSession(ctx, sessionID, loc, *spec)

	rec, err := s.weather.Fetch(ctx, loc, *spec)
	if err != nil {
		if errors.Is(err, nlu.ErrForecastLimit) {
			return message(language, keyForecastLimit)
		}
		log.Printf("chat: weather fetch failed for %s: %v", loc.City, err)
		return message(language, keyApology)
	}

	text, err := s.llm.Compose(ctx, llm.ComposeRequest{
		Record:   rec,
		Query:    utterance,
		Language: language,
	})
	if err != nil {
		log.Printf("chat: composition failed: %v", err)
		return message(language, keyApology)
	}
	return text
}

// Query resolves a one-shot free-text query into a normalized weather record,
// with no session or history involved. Used by the JSON endpoint.
func (s *Service) Query(ctx context.Context, query string) (weather.Record, error) {
	spec, err := nlu.ResolveDate(query, s.now(), nil)
	if err != nil {
		return weather.Record{}, err
	}

	city := nlu.ExtractLocation(query)
	if city == "" {
		// A bare place name ("Tokyo", "東京") matches no pattern; let the
		// geocoder take the whole query.
		city = strings.TrimSpace(query)
	}
	if city == "" {
		return weather.Record{}, ErrMissingLocation
	}

	loc, err := s.weather.Geocode(ctx, city)
	if err != nil {
		return weather.Record{}, err
	}
	return s.weather.Fetch(ctx, loc, spec)
}

// previousSpec rebuilds the session's stored date context. Only historical
// and forecast types carry over; a stored "current" resolves the same as no
// context at all.
func previousSpec(sess session.Context) *nlu.DateSpec {
	switch sess.LastDateType {
	case string(nlu.DateHistorical), string(nlu.DateForecast):
	default:
		return nil
	}
	target, err := time.Parse("2006-01-02", sess.LastDate)
	if err != nil {
		return nil
	}
	return &nlu.DateSpec{TargetDate: target, Type: nlu.DateType(sess.LastDateType)}
}

func (s *Service) saveSession(ctx context.Context, sessionID string, loc weather.Location, spec nlu.DateSpec) {
	dateType := string(spec.Type)
	partial := session.Partial{
		LastCity:     &loc.City,
		LastCountry:  &loc.Country,
		LastDateType: &dateType,
	}
	if !spec.TargetDate.IsZero() {
		date := spec.TargetDate.Format("2006-01-02")
		partial.LastDate = &date
	}
	if err := s.sessions.Update(ctx, sessionID, partial); err != nil {
		log.Printf("chat: session update failed for %s: %v", sessionID, err)
	}
}

func toNLUTurns(turns []Turn) []nlu.Turn {
	out := make([]nlu.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, nlu.Turn{Role: t.Role, Text: t.Content})
	}
	return out
}
