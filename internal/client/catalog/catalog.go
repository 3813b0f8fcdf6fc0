// Package catalog serves the read-only lists (outreaches, ministries, media)
// shown to every user.
//
// All fetches are best-effort: a failure is logged and yields an empty
// list, never an error. Server-supplied text is stripped of markup and
// terminal control characters before it reaches the screen.
package catalog

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/flock/internal/client/client"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/textx"
)

type Service struct {
	client client.Client
	logger logging.Logger
	policy *bluemonday.Policy
}

func NewService(c client.Client, logger logging.Logger) *Service {
	return &Service{
		client: c,
		logger: logger.With("module", "catalog"),
		policy: bluemonday.StrictPolicy(),
	}
}

// Overview is everything the home screen shows.
type Overview struct {
	Outreaches []models.Outreach
	Ministries []models.Ministry
	Media      []models.MediaItem
}

// Overview fetches the three lists concurrently.
func (s *Service) Overview(ctx context.Context) Overview {
	var (
		o Overview
		g errgroup.Group
	)
	g.Go(func() error { o.Outreaches = s.Outreaches(ctx); return nil })
	g.Go(func() error { o.Ministries = s.Ministries(ctx); return nil })
	g.Go(func() error { o.Media = s.Media(ctx); return nil })
	_ = g.Wait()
	return o
}

func (s *Service) Outreaches(ctx context.Context) []models.Outreach {
	items, err := s.client.ListOutreaches(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to fetch outreaches", "error", err)
		return []models.Outreach{}
	}
	out := make([]models.Outreach, 0, len(items))
	for _, it := range items {
		it.Name = s.text(it.Name)
		it.AddressLine1 = s.text(it.AddressLine1)
		it.AddressLine2 = s.text(it.AddressLine2)
		it.City = s.text(it.City)
		it.Country = s.text(it.Country)
		out = append(out, it)
	}
	return out
}

func (s *Service) Ministries(ctx context.Context) []models.Ministry {
	items, err := s.client.ListMinistries(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to fetch ministries", "error", err)
		return []models.Ministry{}
	}
	out := make([]models.Ministry, 0, len(items))
	for _, it := range items {
		it.Name = s.text(it.Name)
		it.Description = s.text(it.Description)
		if it.Requirements != nil {
			reqs := make([]string, 0, len(it.Requirements))
			for _, r := range it.Requirements {
				reqs = append(reqs, s.text(r))
			}
			it.Requirements = reqs
		}
		out = append(out, it)
	}
	return out
}

func (s *Service) Media(ctx context.Context) []models.MediaItem {
	items, err := s.client.ListMedia(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to fetch media", "error", err)
		return []models.MediaItem{}
	}
	out := make([]models.MediaItem, 0, len(items))
	for _, it := range items {
		it.Title = s.text(it.Title)
		it.Description = s.text(it.Description)
		it.Category = s.text(it.Category)
		out = append(out, it)
	}
	return out
}

// text reduces server text to plain, printable characters.
func (s *Service) text(v string) string {
	if v == "" {
		return ""
	}
	return strings.TrimSpace(textx.Plain(s.policy, v))
}
