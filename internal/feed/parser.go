package feed

import (
	"context"
	"encoding/xml"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/market-news/pkg/logger"
	"github.com/selivandex/market-news/pkg/models"
)

const atomNamespace = "http://www.w3.org/2005/Atom"

// feedFormat is the discriminated result of format detection
type feedFormat int

const (
	formatUnrecognized feedFormat = iota
	formatRSS
	formatAtom
)

// Parser converts raw feed text into a normalized ParsedFeed. It handles
// both RSS 2.0 (<rss><channel><item>) and Atom (<feed><entry>) schemas.
type Parser struct {
	fetcher Fetcher
}

// NewParser creates a parser backed by the given fetch capability
func NewParser(fetcher Fetcher) *Parser {
	return &Parser{fetcher: fetcher}
}

// Parse parses raw feed text. It returns *FormatError when the document is
// not well-formed or is neither RSS nor Atom, and *InvalidFeedError when the
// format is recognized but required metadata is missing. Entries missing
// both title and link are dropped silently: partial corruption of single
// entries must not sink the whole feed.
func (p *Parser) Parse(raw string) (*models.ParsedFeed, error) {
	format, root, decoder, err := detectFormat(raw)
	if err != nil {
		return nil, err
	}

	switch format {
	case formatRSS:
		return parseRSS(decoder, root)
	case formatAtom:
		return parseAtom(decoder, root)
	default:
		return nil, &FormatError{Reason: "document is neither RSS 2.0 nor Atom"}
	}
}

// FetchAndParse retrieves and parses a feed. It never fails: any network,
// timeout, format or empty-body condition yields a degenerate zero-item feed
// so that callers treat "no items" uniformly. This is the failure-isolation
// boundary between one flaky source and the aggregate.
func (p *Parser) FetchAndParse(ctx context.Context, url string) *models.ParsedFeed {
	raw, err := p.fetcher.FetchText(ctx, url)
	if err != nil {
		logger.Warn("feed fetch failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return unavailableFeed("fetch failed: " + err.Error())
	}

	if strings.TrimSpace(raw) == "" {
		return unavailableFeed("empty response body")
	}

	parsed, err := p.Parse(raw)
	if err != nil {
		logger.Warn("feed parse failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return unavailableFeed("parse failed: " + err.Error())
	}

	return parsed
}

func unavailableFeed(reason string) *models.ParsedFeed {
	return &models.ParsedFeed{
		Title:       "Feed Temporarily Unavailable",
		Description: reason,
		Entries:     []models.RawFeedEntry{},
	}
}

// detectFormat reads up to the root element and classifies the document
func detectFormat(raw string) (feedFormat, xml.StartElement, *xml.Decoder, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	// strict structure, but tolerate HTML entities common in sloppy feeds
	decoder.Entity = xml.HTMLEntity

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return formatUnrecognized, xml.StartElement{}, nil, &FormatError{Reason: "no root element"}
		}
		if err != nil {
			return formatUnrecognized, xml.StartElement{}, nil, &FormatError{Reason: "malformed XML", Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case start.Name.Local == "rss":
			return formatRSS, start, decoder, nil
		case start.Name.Local == "feed" && (start.Name.Space == atomNamespace || start.Name.Space == ""):
			return formatAtom, start, decoder, nil
		default:
			return formatUnrecognized, start, nil, &FormatError{Reason: "unexpected root element <" + start.Name.Local + ">"}
		}
	}
}

type rssDocument struct {
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	Description string        `xml:"description"`
	Encoded     string        `xml:"encoded"` // content:encoded
	PubDate     string        `xml:"pubDate"`
	GUID        string        `xml:"guid"`
	Category    string        `xml:"category"`
	Author      string        `xml:"author"`
	Creator     string        `xml:"creator"` // dc:creator
	Enclosure   *rssEnclosure `xml:"enclosure"`
}

type rssEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

func parseRSS(decoder *xml.Decoder, root xml.StartElement) (*models.ParsedFeed, error) {
	var doc rssDocument
	if err := decoder.DecodeElement(&doc, &root); err != nil {
		return nil, &FormatError{Reason: "malformed RSS document", Err: err}
	}
	if doc.Channel == nil {
		return nil, &InvalidFeedError{Reason: "missing <channel> element"}
	}
	if strings.TrimSpace(doc.Channel.Title) == "" {
		return nil, &InvalidFeedError{Reason: "channel has no title"}
	}

	feed := &models.ParsedFeed{
		Title:         CleanText(doc.Channel.Title),
		Description:   CleanText(doc.Channel.Description),
		Link:          strings.TrimSpace(doc.Channel.Link),
		LastBuildDate: strings.TrimSpace(doc.Channel.LastBuildDate),
		Entries:       make([]models.RawFeedEntry, 0, len(doc.Channel.Items)),
	}

	for _, item := range doc.Channel.Items {
		title := CleanText(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" && link == "" {
			continue
		}

		// content:encoded carries the full body when present
		content := item.Encoded

		// dc:creator is the common alias for author in RSS feeds
		author := strings.TrimSpace(item.Author)
		if author == "" {
			author = strings.TrimSpace(item.Creator)
		}

		entry := models.RawFeedEntry{
			Title:       title,
			Description: CleanText(item.Description),
			Content:     content,
			Link:        link,
			PubDate:     strings.TrimSpace(item.PubDate),
			GUID:        strings.TrimSpace(item.GUID),
			Category:    CleanText(item.Category),
			Author:      author,
		}
		if item.Enclosure != nil {
			entry.EnclosureURL = item.Enclosure.URL
			entry.EnclosureType = item.Enclosure.Type
		}
		feed.Entries = append(feed.Entries, entry)
	}

	return feed, nil
}

type atomDocument struct {
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Entries  []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title      string     `xml:"title"`
	Summary    string     `xml:"summary"`
	Content    string     `xml:"content"`
	ID         string     `xml:"id"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	Links      []atomLink `xml:"link"`
	Author     atomAuthor `xml:"author"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

func parseAtom(decoder *xml.Decoder, root xml.StartElement) (*models.ParsedFeed, error) {
	var doc atomDocument
	if err := decoder.DecodeElement(&doc, &root); err != nil {
		return nil, &FormatError{Reason: "malformed Atom document", Err: err}
	}

	feed := &models.ParsedFeed{
		Title:         CleanText(doc.Title),
		Description:   CleanText(doc.Subtitle),
		Link:          pickAtomLink(doc.Links),
		LastBuildDate: strings.TrimSpace(doc.Updated),
		Entries:       make([]models.RawFeedEntry, 0, len(doc.Entries)),
	}

	for _, item := range doc.Entries {
		title := CleanText(item.Title)
		link := pickAtomLink(item.Links)
		if title == "" && link == "" {
			continue
		}

		// Atom has no pubDate/updated distinction that matters here:
		// published is preferred, updated is the fallback.
		pubDate := strings.TrimSpace(item.Published)
		if pubDate == "" {
			pubDate = strings.TrimSpace(item.Updated)
		}

		entry := models.RawFeedEntry{
			Title:       title,
			Description: CleanText(item.Summary),
			Content:     item.Content,
			Link:        link,
			PubDate:     pubDate,
			GUID:        strings.TrimSpace(item.ID),
			Author:      strings.TrimSpace(item.Author.Name),
		}
		if len(item.Categories) > 0 {
			entry.Category = strings.TrimSpace(item.Categories[0].Term)
		}
		feed.Entries = append(feed.Entries, entry)
	}

	return feed, nil
}

// pickAtomLink prefers rel="alternate" (or no rel), the usual article link
func pickAtomLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "" || l.Rel == "alternate" {
			return strings.TrimSpace(l.Href)
		}
	}
	if len(links) > 0 {
		return strings.TrimSpace(links[0].Href)
	}
	return ""
}

// feedDateLayouts are tried in order. Real-world feeds are sloppy about
// dates, so the list covers the common malformed variants too.
var feedDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	time.RFC822Z,
	time.RFC822,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02 Jan 2006 15:04:05 -0700",
}

// ParseDate parses a feed publish date, trying known RSS/Atom layouts.
// On total failure it returns the current time: publish order is best
// effort for malformed feeds, never a reason to drop an entry.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now()
	}

	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	logger.Debug("unparseable feed date, falling back to now",
		zap.String("value", value),
	)
	return time.Now()
}
