package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type stubFetcher struct {
	body string
	err  error
}

func (f *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return f.body, f.err
}

const sampleRSS = `<rss version="2.0"><channel>
<title>X</title>
<item><title>Stocks surge</title><link>http://a/1</link></item>
</channel></rss>`

const fullRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>Market Wire</title>
<description>Finance headlines</description>
<link>https://example.com</link>
<lastBuildDate>Mon, 02 Jun 2025 10:00:00 +0000</lastBuildDate>
<item>
<title><![CDATA[Fed holds rates &amp; markets rally]]></title>
<link>https://example.com/articles/1</link>
<description><![CDATA[<p>Markets <b>rallied</b> after the decision.</p>]]></description>
<content:encoded><![CDATA[<p>Full body</p>]]></content:encoded>
<pubDate>Mon, 02 Jun 2025 09:30:00 +0000</pubDate>
<guid>guid-1</guid>
<category>markets</category>
<dc:creator>Jane Reporter</dc:creator>
<enclosure url="https://example.com/img/1.jpg" type="image/jpeg"/>
</item>
<item>
<title></title>
<link></link>
<description>orphan entry with no identity</description>
</item>
<item>
<title>Second story</title>
<link>https://example.com/articles/2</link>
<pubDate>not a real date</pubDate>
</item>
</channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Crypto Watch</title>
<subtitle>Digital asset news</subtitle>
<link rel="alternate" href="https://example.org"/>
<updated>2025-06-02T10:00:00Z</updated>
<entry>
<title>Bitcoin climbs</title>
<link rel="alternate" href="https://example.org/posts/1"/>
<id>tag:example.org,2025:1</id>
<published>2025-06-02T09:00:00Z</published>
<summary>BTC moved higher.</summary>
<author><name>Sam Writer</name></author>
<category term="bitcoin"/>
</entry>
</feed>`

func TestParser_ParseRSS(t *testing.T) {
	parser := NewParser(nil)

	parsed, err := parser.Parse(sampleRSS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Title != "X" {
		t.Errorf("expected title X, got %q", parsed.Title)
	}
	if len(parsed.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(parsed.Entries))
	}
	if parsed.Entries[0].Title != "Stocks surge" {
		t.Errorf("expected title 'Stocks surge', got %q", parsed.Entries[0].Title)
	}
	if parsed.Entries[0].Link != "http://a/1" {
		t.Errorf("expected link http://a/1, got %q", parsed.Entries[0].Link)
	}
}

func TestParser_ParseFullRSS(t *testing.T) {
	parser := NewParser(nil)

	parsed, err := parser.Parse(fullRSS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Title != "Market Wire" {
		t.Errorf("expected feed title 'Market Wire', got %q", parsed.Title)
	}

	// the orphan entry (no title, no link) must be dropped
	if len(parsed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(parsed.Entries))
	}

	first := parsed.Entries[0]
	if first.Title != "Fed holds rates & markets rally" {
		t.Errorf("CDATA/entity decoding failed, got %q", first.Title)
	}
	if first.Description != "Markets rallied after the decision." {
		t.Errorf("markup stripping failed, got %q", first.Description)
	}
	if !strings.Contains(first.Content, "Full body") {
		t.Errorf("content:encoded not extracted, got %q", first.Content)
	}
	if first.Author != "Jane Reporter" {
		t.Errorf("dc:creator alias not applied, got %q", first.Author)
	}
	if first.EnclosureURL != "https://example.com/img/1.jpg" || first.EnclosureType != "image/jpeg" {
		t.Errorf("enclosure not extracted: %q %q", first.EnclosureURL, first.EnclosureType)
	}
	if first.GUID != "guid-1" {
		t.Errorf("guid not extracted, got %q", first.GUID)
	}
}

func TestParser_ParseAtom(t *testing.T) {
	parser := NewParser(nil)

	parsed, err := parser.Parse(sampleAtom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Title != "Crypto Watch" {
		t.Errorf("expected title 'Crypto Watch', got %q", parsed.Title)
	}
	if parsed.Description != "Digital asset news" {
		t.Errorf("expected subtitle as description, got %q", parsed.Description)
	}
	if len(parsed.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(parsed.Entries))
	}

	entry := parsed.Entries[0]
	if entry.Title != "Bitcoin climbs" {
		t.Errorf("expected entry title, got %q", entry.Title)
	}
	if entry.Link != "https://example.org/posts/1" {
		t.Errorf("expected alternate link, got %q", entry.Link)
	}
	if entry.PubDate != "2025-06-02T09:00:00Z" {
		t.Errorf("expected published date, got %q", entry.PubDate)
	}
	if entry.Author != "Sam Writer" {
		t.Errorf("expected author name, got %q", entry.Author)
	}
	if entry.Category != "bitcoin" {
		t.Errorf("expected category term, got %q", entry.Category)
	}
}

func TestParser_ParseErrors(t *testing.T) {
	parser := NewParser(nil)

	tests := []struct {
		name       string
		input      string
		wantFormat bool
		wantFeed   bool
	}{
		{
			name:       "malformed XML",
			input:      "<rss><channel><title>Broken",
			wantFormat: true,
		},
		{
			name:       "not a feed document",
			input:      "<html><body>hello</body></html>",
			wantFormat: true,
		},
		{
			name:       "empty input",
			input:      "",
			wantFormat: true,
		},
		{
			name:       "plain text",
			input:      "just some text, no markup at all",
			wantFormat: true,
		},
		{
			name:     "rss without channel",
			input:    `<rss version="2.0"></rss>`,
			wantFeed: true,
		},
		{
			name:     "rss channel without title",
			input:    `<rss version="2.0"><channel><item><title>a</title><link>b</link></item></channel></rss>`,
			wantFeed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var formatErr *FormatError
			var feedErr *InvalidFeedError
			if tt.wantFormat && !errors.As(err, &formatErr) {
				t.Errorf("expected FormatError, got %T: %v", err, err)
			}
			if tt.wantFeed && !errors.As(err, &feedErr) {
				t.Errorf("expected InvalidFeedError, got %T: %v", err, err)
			}
		})
	}
}

func TestParser_FetchAndParseNeverFails(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
	}{
		{"network error", &stubFetcher{err: fmt.Errorf("connection refused")}},
		{"empty body", &stubFetcher{body: "   "}},
		{"malformed body", &stubFetcher{body: "<rss><channel><title>Broken"}},
		{"non-feed body", &stubFetcher{body: "<html></html>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(tt.fetcher)
			parsed := parser.FetchAndParse(context.Background(), "https://example.com/feed")

			if parsed == nil {
				t.Fatal("expected degenerate feed, got nil")
			}
			if len(parsed.Entries) != 0 {
				t.Errorf("expected zero entries, got %d", len(parsed.Entries))
			}
			if !strings.Contains(parsed.Title, "Unavailable") {
				t.Errorf("expected degenerate title, got %q", parsed.Title)
			}
		})
	}
}

func TestParser_FetchAndParseSuccess(t *testing.T) {
	parser := NewParser(&stubFetcher{body: sampleRSS})

	parsed := parser.FetchAndParse(context.Background(), "https://example.com/feed")
	if len(parsed.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(parsed.Entries))
	}
	if parsed.Entries[0].Title != "Stocks surge" {
		t.Errorf("expected entry title, got %q", parsed.Entries[0].Title)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "RFC1123Z",
			value: "Mon, 02 Jun 2025 09:30:00 +0000",
			want:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC1123",
			value: "Mon, 02 Jun 2025 09:30:00 UTC",
			want:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339",
			value: "2025-06-02T09:30:00Z",
			want:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			value: "2025-06-02",
			want:  time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "single digit day",
			value: "Mon, 2 Jun 2025 09:30:00 +0000",
			want:  time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.value)
			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseDate_FallbackToNow(t *testing.T) {
	for _, value := range []string{"", "not a date", "yesterday afternoon"} {
		before := time.Now()
		got := ParseDate(value)
		after := time.Now()

		if got.Before(before) || got.After(after) {
			t.Errorf("expected now-ish fallback for %q, got %v", value, got)
		}
	}
}
