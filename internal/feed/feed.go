// Package feed renders an RSS 2.0 document from the eager-mode page
// index. The feed is wired into the site as a generated source, so it is
// rebuilt through the same memoized pipeline as content pages.
package feed

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/jmorelli/trellis/internal/page"
)

// Options configures feed generation.
type Options struct {
	Title       string
	Description string
	BaseURL     string // site URL, no trailing slash
	FeedURL     string // feed's own URL, e.g. /feed.xml
	MaxItems    int    // 0 means no limit
}

// rssFeed is the top-level RSS 2.0 structure.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string      `xml:"title"`
	Link        string      `xml:"link"`
	Description string      `xml:"description"`
	AtomLink    rssAtomLink `xml:"atom:link"`
	Items       []rssItem   `xml:"item"`
}

type rssAtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate,omitempty"`
	GUID        string `xml:"guid"`
	Description cdata  `xml:"description"`
}

// cdata wraps text in a CDATA section when marshaled.
type cdata struct {
	Text string `xml:",cdata"`
}

// Generate builds the RSS document from the page index (URL to page data).
// Items carrying a parseable "date" key sort newest first; undated items
// follow in URL order. The feed's own URL is excluded.
func Generate(index map[string]map[string]any, opts Options) ([]byte, error) {
	type candidate struct {
		url  string
		data map[string]any
		date time.Time
	}

	var items []candidate
	for url, data := range index {
		if url == opts.FeedURL {
			continue
		}
		items = append(items, candidate{url: url, data: data, date: pubDate(data)})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].date.Equal(items[j].date) {
			return items[i].date.After(items[j].date)
		}
		return items[i].url < items[j].url
	})
	if opts.MaxItems > 0 && len(items) > opts.MaxItems {
		items = items[:opts.MaxItems]
	}

	rssItems := make([]rssItem, 0, len(items))
	for _, it := range items {
		link := opts.BaseURL + it.url
		ri := rssItem{
			Title:       stringKey(it.data, page.KeyTitle),
			Link:        link,
			GUID:        link,
			Description: cdata{Text: stringKey(it.data, page.KeyDescription)},
		}
		if !it.date.IsZero() {
			ri.PubDate = it.date.Format(time.RFC1123Z)
		}
		rssItems = append(rssItems, ri)
	}

	doc := rssFeed{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       opts.Title,
			Link:        opts.BaseURL,
			Description: opts.Description,
			AtomLink: rssAtomLink{
				Href: opts.BaseURL + opts.FeedURL,
				Rel:  "self",
				Type: "application/rss+xml",
			},
			Items: rssItems,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// pubDate extracts the "date" data key, accepting time values or the
// formats front-matter commonly carries.
func pubDate(data map[string]any) time.Time {
	switch v := data["date"].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// stringKey returns data[key] when it is a string.
func stringKey(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
