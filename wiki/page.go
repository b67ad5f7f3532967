package wiki

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// Page - the current text of a wiki page
type Page struct {
	Title  string
	Text   string
	Exists bool
}

// batchSize - titles per query, the API limit for non-bot accounts
const batchSize = 50

type queryPages struct {
	Query struct {
		Normalized []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"normalized"`
		Pages []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing"`
			Invalid   bool   `json:"invalid"`
			Revisions []struct {
				Slots struct {
					Main struct {
						Content string `json:"content"`
					} `json:"main"`
				} `json:"slots"`
			} `json:"revisions"`
		} `json:"pages"`
	} `json:"query"`
}

// Pages fetches the given titles in batches, preserving their order.
// Missing pages and invalid titles are returned with Exists false.
func (c *Client) Pages(ctx context.Context, titles []string) ([]*Page, error) {
	result := make([]*Page, 0, len(titles))
	for start := 0; start < len(titles); start += batchSize {
		end := min(start+batchSize, len(titles))
		batch, err := c.fetchBatch(ctx, titles[start:end])
		if err != nil {
			return nil, err
		}
		result = append(result, batch...)
	}
	log.Debug().Int("pages", len(result)).Msg("[Wiki] pages loaded")
	return result, nil
}

func (c *Client) fetchBatch(ctx context.Context, titles []string) ([]*Page, error) {
	var resp queryPages
	err := c.get(ctx, url.Values{
		"action":  {"query"},
		"prop":    {"revisions"},
		"rvprop":  {"content"},
		"rvslots": {"main"},
		"titles":  {strings.Join(titles, "|")},
	}, &resp)
	if err != nil {
		return nil, err
	}

	normalized := make(map[string]string, len(resp.Query.Normalized))
	for _, n := range resp.Query.Normalized {
		normalized[n.From] = n.To
	}
	byTitle := make(map[string]*Page, len(resp.Query.Pages))
	for _, p := range resp.Query.Pages {
		if p.Invalid {
			log.Warn().Str("title", p.Title).Msg("[Wiki] invalid page title")
			byTitle[p.Title] = &Page{Title: p.Title}
			continue
		}
		page := &Page{Title: p.Title, Exists: !p.Missing}
		if len(p.Revisions) > 0 {
			page.Text = p.Revisions[0].Slots.Main.Content
		}
		byTitle[p.Title] = page
	}

	pages := make([]*Page, 0, len(titles))
	for _, t := range titles {
		key := t
		if n, ok := normalized[t]; ok {
			key = n
		}
		p, ok := byTitle[key]
		if !ok {
			return nil, fmt.Errorf("wiki did not return page %q", t)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// Page fetches a single page.
func (c *Client) Page(ctx context.Context, title string) (*Page, error) {
	pages, err := c.Pages(ctx, []string{title})
	if err != nil {
		return nil, err
	}
	return pages[0], nil
}

// Exists returns the subset of titles that exist.
func (c *Client) Exists(ctx context.Context, titles []string) (map[string]bool, error) {
	pages, err := c.Pages(ctx, titles)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(pages))
	for i, p := range pages {
		if p.Exists {
			existing[titles[i]] = true
		}
	}
	return existing, nil
}

// Save writes text to the page when it differs from the current text,
// ignoring surrounding whitespace. It reports whether an edit was made.
func (c *Client) Save(ctx context.Context, page *Page, text, summary string) (bool, error) {
	if strings.TrimSpace(page.Text) == strings.TrimSpace(text) {
		log.Debug().Str("page", page.Title).Msg("[Wiki] unchanged")
		return false, nil
	}
	if c.opts.DryRun {
		log.Info().Str("page", page.Title).Str("summary", summary).Int("bytes", len(text)).Msg("[Wiki] dry run, edit skipped")
		page.Text, page.Exists = text, true
		return true, nil
	}
	token, err := c.csrfToken(ctx)
	if err != nil {
		return false, err
	}
	var resp struct {
		Edit struct {
			Result   string `json:"result"`
			NoChange bool   `json:"nochange"`
		} `json:"edit"`
	}
	err = c.post(ctx, url.Values{
		"action":  {"edit"},
		"title":   {page.Title},
		"text":    {text},
		"summary": {summary},
		"bot":     {"1"},
		"token":   {token},
	}, &resp)
	if err != nil {
		return false, fmt.Errorf("edit %s: %w", page.Title, err)
	}
	if resp.Edit.Result != "Success" {
		return false, fmt.Errorf("edit %s: result %s", page.Title, resp.Edit.Result)
	}
	page.Text, page.Exists = text, true
	log.Info().Str("page", page.Title).Str("summary", summary).Msg("[Wiki] saved")
	return !resp.Edit.NoChange, nil
}

// Redirect points title at target.
func (c *Client) Redirect(ctx context.Context, title, target, summary string) error {
	page, err := c.Page(ctx, title)
	if err != nil {
		return err
	}
	_, err = c.Save(ctx, page, "#REDIRECT [["+target+"]]", summary)
	return err
}

// Move renames a page and leaves a redirect behind.
func (c *Client) Move(ctx context.Context, from, to, reason string) error {
	if c.opts.DryRun {
		log.Info().Str("from", from).Str("to", to).Msg("[Wiki] dry run, move skipped")
		return nil
	}
	token, err := c.csrfToken(ctx)
	if err != nil {
		return err
	}
	err = c.post(ctx, url.Values{
		"action": {"move"},
		"from":   {from},
		"to":     {to},
		"reason": {reason},
		"token":  {token},
	}, nil)
	if err != nil {
		return fmt.Errorf("move %s to %s: %w", from, to, err)
	}
	log.Info().Str("from", from).Str("to", to).Msg("[Wiki] moved")
	return nil
}
