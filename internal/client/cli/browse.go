package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/flock/internal/client/catalog"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/metrics"
)

func (a *App) Outreaches(ctx context.Context) error {
	items := a.catalog.Outreaches(ctx)
	if len(items) == 0 {
		printlnFn("No outreaches to show.")
		return nil
	}
	for _, o := range items {
		printlnFn(fmt.Sprintf("[%d] %s", o.ID, o.Name))
		addr := o.AddressLine1
		if o.AddressLine2 != "" {
			addr += ", " + o.AddressLine2
		}
		printlnFn(fmt.Sprintf("    %s, %s %s, %s", addr, o.City, o.PostCode, o.Country))
		if o.Services != nil {
			printlnFn(fmt.Sprintf("    Services: %s %s-%s", o.Services.Day, o.Services.StartTime, o.Services.EndTime))
		}
		if o.Phone != "" {
			printlnFn("    Phone: " + o.Phone)
		}
	}
	return nil
}

func (a *App) Ministries(ctx context.Context) error {
	items := a.catalog.Ministries(ctx)
	if len(items) == 0 {
		printlnFn("No ministries to show.")
		return nil
	}
	for _, m := range items {
		printlnFn(fmt.Sprintf("[%d] %s", m.ID, m.Name))
		if m.Description != "" {
			printlnFn("    " + m.Description)
		}
		for _, r := range m.Requirements {
			printlnFn("    - " + r)
		}
	}
	return nil
}

// Media lists media items. args may name a category ("media Bible Study")
// or select one item ("media show 12").
func (a *App) Media(ctx context.Context, args []string) error {
	if len(args) >= 1 && args[0] == "show" {
		if len(args) != 2 {
			printlnFn("Usage: media show <id>")
			return nil
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			printlnFn("Usage: media show <id>")
			return nil
		}
		return a.mediaDetail(ctx, id)
	}

	category := models.CategoryAll
	if len(args) > 0 {
		c, ok := matchCategory(strings.Join(args, " "))
		if !ok {
			printlnFn("Unknown category. Choose one of: " + strings.Join(models.MediaCategories, ", "))
			return nil
		}
		category = c
	}

	items := a.catalog.Media(ctx)
	if featured, ok := catalog.Featured(items); ok && category == models.CategoryAll {
		printlnFn(fmt.Sprintf("Featured: %s (%s)", featured.Title, featured.WatchURL()))
	}

	filtered := catalog.FilterByCategory(items, category)
	if len(filtered) == 0 {
		printlnFn("No media to show.")
		return nil
	}
	for _, m := range filtered {
		printlnFn(fmt.Sprintf("[%d] %s - %s", m.ID, m.Title, m.Category))
	}
	return nil
}

func (a *App) mediaDetail(ctx context.Context, id int64) error {
	m, ok := catalog.FindMedia(a.catalog.Media(ctx), id)
	if !ok {
		printlnFn("Media not found.")
		return nil
	}
	printlnFn(m.Title)
	printlnFn("Category: " + m.Category)
	if m.PublishedAt != "" {
		printlnFn("Published: " + m.PublishedAt)
	}
	if m.Description != "" {
		printlnFn(m.Description)
	}
	if u := m.WatchURL(); u != "" {
		printlnFn("Watch: " + u)
	}
	return nil
}

func matchCategory(s string) (string, bool) {
	for _, c := range models.MediaCategories {
		if strings.EqualFold(c, strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Connect collects a message for the church. There is no endpoint for it
// yet, so a valid message is only logged.
func (a *App) Connect(ctx context.Context) error {
	var msg models.ContactMessage
	if u := a.sessions.User(); u != nil {
		msg.Name, msg.Email = u.FullName(), u.Email
	}

	var err error
	if msg.Name, err = getTextWithDefault(a.reader, "Your name", msg.Name, a.out); err != nil {
		return err
	}
	if msg.Email, err = getTextWithDefault(a.reader, "Your email", msg.Email, a.out); err != nil {
		return err
	}
	if msg.Message, err = getMultiline(a.reader, "Your message", a.out); err != nil {
		return err
	}

	if err := a.validator.Struct(msg); err != nil {
		printlnFn("Message not sent:", describe(err))
		return err
	}

	a.logger.Info(ctx, "contact message", "name", msg.Name, "email", msg.Email, "length", len(msg.Message))
	printlnFn("Thank you! We'll be in touch.")
	return nil
}

// Stats prints how many API requests this session made, by endpoint and
// status code.
func (a *App) Stats(ctx context.Context) error {
	counts, err := metrics.RequestCounts(a.registry, metricsSubsystem)
	if err != nil {
		a.logger.Warn(ctx, "gathering metrics", "error", err)
		return err
	}
	if len(counts) == 0 {
		printlnFn("No requests yet.")
		return nil
	}
	for _, c := range counts {
		printlnFn(fmt.Sprintf("%-16s %-6s %d", c.Endpoint, c.Code, int64(c.Count)))
	}
	return nil
}
