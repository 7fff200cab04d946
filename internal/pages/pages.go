// Package pages renders the site. Every section carries a status so a
// failing upstream degrades to a message instead of breaking the page.
package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leonardcser/motorsport-web/internal/logger"
	"github.com/leonardcser/motorsport-web/internal/motorsport"
	"github.com/leonardcser/motorsport-web/internal/scrape"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names, also used as template file names.
const (
	PageIndex    = "index"
	PageAbout    = "about"
	PageF1       = "f1"
	PageWRC      = "wrc"
	PageWEC      = "wec"
	PageSchedule = "schedule"
)

var pageNames = []string{PageIndex, PageAbout, PageF1, PageWRC, PageWEC, PageSchedule}

// The F1 page shows the start of the longer lists.
const (
	f1NewsLimit     = 10
	f1ScheduleLimit = 8
)

// Provider supplies page data; *motorsport.Service implements it.
type Provider interface {
	News(ctx context.Context) (scrape.Headlines, error)
	Schedule(ctx context.Context) (scrape.Schedule, error)
	LastRace(ctx context.Context) (scrape.LastRace, error)
	Video(ctx context.Context, series motorsport.Series) (motorsport.Video, error)
}

type Renderer struct {
	data  Provider
	pages map[string]*template.Template
}

func NewRenderer(data Provider) (*Renderer, error) {
	r := &Renderer{data: data, pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Section is one block of a page with its load status.
type Section[T any] struct {
	Data   T
	Status string
}

func (s Section[T]) OK() bool { return s.Status == scrape.KindNone.String() }

func section[T any](v T, err error) Section[T] {
	return Section[T]{Data: v, Status: scrape.KindOf(err).String()}
}

type VideoPage struct {
	Title string
	Video Section[string]
}

type F1Page struct {
	Title    string
	Video    Section[string]
	News     Section[scrape.Headlines]
	Schedule Section[scrape.Schedule]
	LastRace Section[scrape.LastRace]
}

type SchedulePage struct {
	Title    string
	Schedule Section[scrape.Schedule]
}

type StaticPage struct {
	Title string
}

// Render writes the named page to w.
func (r *Renderer) Render(ctx context.Context, name string, w io.Writer) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	data, err := r.pageData(ctx, name)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, "base.html", data)
}

func (r *Renderer) pageData(ctx context.Context, name string) (any, error) {
	switch name {
	case PageIndex:
		return StaticPage{Title: "Motorsport"}, nil
	case PageAbout:
		return StaticPage{Title: "About"}, nil
	case PageF1:
		return r.f1(ctx)
	case PageWRC:
		return r.videoPage(ctx, "WRC", motorsport.SeriesWRC), nil
	case PageWEC:
		return r.videoPage(ctx, "WEC", motorsport.SeriesWEC), nil
	case PageSchedule:
		sch, err := r.data.Schedule(ctx)
		return SchedulePage{Title: "Formula 1 schedule", Schedule: section(sch, err)}, nil
	}
	return nil, fmt.Errorf("unknown page %q", name)
}

func (r *Renderer) videoPage(ctx context.Context, title string, series motorsport.Series) VideoPage {
	v, err := r.data.Video(ctx, series)
	return VideoPage{Title: title, Video: section(v.EmbedURL(), err)}
}

// f1 loads the four F1 sections concurrently. Sources report failures
// through their section status, so the group itself never fails.
func (r *Renderer) f1(ctx context.Context) (F1Page, error) {
	p := F1Page{Title: "Formula 1"}
	var g errgroup.Group
	g.Go(func() error {
		v, err := r.data.Video(ctx, motorsport.SeriesF1)
		p.Video = section(v.EmbedURL(), err)
		return nil
	})
	g.Go(func() error {
		news, err := r.data.News(ctx)
		if len(news) > f1NewsLimit {
			news = news[:f1NewsLimit]
		}
		p.News = section(news, err)
		return nil
	})
	g.Go(func() error {
		sch, err := r.data.Schedule(ctx)
		if len(sch) > f1ScheduleLimit {
			sch = sch[:f1ScheduleLimit]
		}
		p.Schedule = section(sch, err)
		return nil
	})
	g.Go(func() error {
		lr, err := r.data.LastRace(ctx)
		p.LastRace = section(lr, err)
		return nil
	})
	return p, g.Wait()
}

// Handler serves every page.
func (r *Renderer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /{$}", r.page(PageIndex))
	mux.Handle("GET /home", r.page(PageIndex))
	for _, name := range pageNames[1:] {
		mux.Handle("GET /"+name, r.page(name))
	}
	return mux
}

func (r *Renderer) page(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		var buf bytes.Buffer
		if err := r.Render(req.Context(), name, &buf); err != nil {
			logger.Errorf("render %s: %v", name, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
		logger.Debugf("GET %s rendered %s in %s", req.URL.Path, name, time.Since(start))
	})
}
