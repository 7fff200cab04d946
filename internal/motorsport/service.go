// Package motorsport assembles the data shown on the site: cached news,
// schedule and last-race results plus uncached latest-video lookups.
package motorsport

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/leonardcser/motorsport-web/internal/cache"
	"github.com/leonardcser/motorsport-web/internal/config"
	"github.com/leonardcser/motorsport-web/internal/logger"
	"github.com/leonardcser/motorsport-web/internal/scrape"
)

// Cache keys, one per cached source.
const (
	KeyNews     = "f1_news"
	KeySchedule = "f1_schedule"
	KeyLastRace = "f1_last_race"
)

// Fetcher performs the outbound GETs.
type Fetcher interface {
	Document(ctx context.Context, rawURL string) (*goquery.Document, error)
	Body(ctx context.Context, rawURL string) ([]byte, error)
}

type Service struct {
	fetch    Fetcher
	sources  config.Sources
	video    config.Video
	news     *cache.Memo[scrape.Headlines]
	schedule *cache.Memo[scrape.Schedule]
	lastRace *cache.Memo[scrape.LastRace]
}

func New(f Fetcher, kv cache.KV, cfg config.Config) *Service {
	s := &Service{fetch: f, sources: cfg.Sources, video: cfg.Video}
	ttl := cfg.Cache.TTL
	s.news = cache.NewMemo(kv, KeyNews, ttl, s.loadNews)
	s.schedule = cache.NewMemo(kv, KeySchedule, ttl, s.loadSchedule)
	s.lastRace = cache.NewMemo(kv, KeyLastRace, ttl, s.loadLastRace)
	return s
}

// News returns Formula 1 headlines; empty on failure.
func (s *Service) News(ctx context.Context) (scrape.Headlines, error) {
	h, err := s.news.Get(ctx)
	if err != nil {
		logger.Warnf("%s: %v", s.news.Key(), err)
		return scrape.Headlines{}, err
	}
	return h, nil
}

// Schedule returns the current season calendar; empty on failure.
func (s *Service) Schedule(ctx context.Context) (scrape.Schedule, error) {
	sch, err := s.schedule.Get(ctx)
	if err != nil {
		logger.Warnf("%s: %v", s.schedule.Key(), err)
		return scrape.Schedule{}, err
	}
	return sch, nil
}

// LastRace returns the latest classification. Failures yield the "Error"
// sentinel, except an empty classification which keeps its race name.
func (s *Service) LastRace(ctx context.Context) (scrape.LastRace, error) {
	lr, err := s.lastRace.Get(ctx)
	if err != nil {
		logger.Warnf("%s: %v", s.lastRace.Key(), err)
		if scrape.KindOf(err) != scrape.KindEmpty {
			return scrape.ErrorLastRace(), err
		}
	}
	return lr, err
}

func (s *Service) loadNews(ctx context.Context) (h scrape.Headlines, err error) {
	defer guard(scrape.SourceNews, &err)
	doc, err := s.document(ctx, scrape.SourceNews, s.sources.NewsURL)
	if err != nil {
		return nil, err
	}
	return scrape.ParseNews(doc)
}

func (s *Service) loadSchedule(ctx context.Context) (sch scrape.Schedule, err error) {
	defer guard(scrape.SourceSchedule, &err)
	doc, err := s.document(ctx, scrape.SourceSchedule, s.sources.ScheduleURL)
	if err != nil {
		return nil, err
	}
	return scrape.ParseSchedule(doc)
}

func (s *Service) loadLastRace(ctx context.Context) (lr scrape.LastRace, err error) {
	defer guard(scrape.SourceLastRace, &err)
	doc, err := s.document(ctx, scrape.SourceLastRace, s.sources.StandingsURL)
	if err != nil {
		return scrape.ErrorLastRace(), err
	}
	return scrape.ParseLastRace(doc)
}

func (s *Service) document(ctx context.Context, source, rawURL string) (*goquery.Document, error) {
	doc, err := s.fetch.Document(ctx, rawURL)
	if err != nil {
		return nil, scrape.NetworkError(source, err)
	}
	return doc, nil
}

// guard turns a panic inside a loader into a structure error so a broken
// page never takes the request down.
func guard(source string, err *error) {
	if r := recover(); r != nil {
		*err = scrape.StructureError(source, fmt.Errorf("panic: %v", r))
	}
}
