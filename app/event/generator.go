package event

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/cfg"
)

// Generator renders stored events as a combined RSS 2.0 feed. Taxonomy
// categories become plain <category> elements; matched locations are emitted
// with domain="location" so consumers can tell the two apart.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(events []Event) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", "Bengaluru Pulse", 4)
	g.writeElement(&buf, "link", fmt.Sprintf("http://localhost:%s/", cfg.Get().Port), 4)
	g.writeElement(&buf, "description", "Bengaluru event reports aggregated from news feeds and Reddit", 4)

	selfLink := fmt.Sprintf("http://localhost:%s/feed.xml", cfg.Get().Port)
	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		html.EscapeString(selfLink)))

	lastBuildDate := time.Now().In(time.Local)
	if len(events) > 0 {
		lastBuildDate = cmp.Or(derefTime(events[0].TimestampPublished), events[0].TimestampScraped, lastBuildDate)
	}

	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Bengaluru Pulse/%s", cfg.Get().Version), 4)
	g.writeElement(&buf, "language", "en", 4)

	for _, ev := range events {
		g.writeItem(&buf, ev)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, ev Event) {
	buf.WriteString("    <item>\n")

	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", g.isURL(ev.EventID)))
	xml.EscapeText(buf, []byte(ev.EventID))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", ev.ContentSummary, 6)
	g.writeElement(buf, "link", ev.LinkOriginal, 6)
	g.writeElement(buf, "description", cmp.Or(ev.ContentSummary, "No description available"), 6)

	if ev.ContentRaw != "" && ev.ContentRaw != ev.ContentSummary {
		buf.WriteString("      <content:encoded><![CDATA[")
		buf.WriteString(ev.ContentRaw)
		buf.WriteString("]]></content:encoded>\n")
	}

	pubDate := cmp.Or(derefTime(ev.TimestampPublished), ev.TimestampScraped)
	g.writeElement(buf, "pubDate", pubDate.Format(time.RFC1123Z), 6)

	for _, category := range ev.Analysis.Categories {
		if category != "" {
			g.writeElement(buf, "category", category, 6)
		}
	}

	for _, location := range ev.Analysis.MentionedLocations {
		if location == "" {
			continue
		}
		buf.WriteString(`      <category domain="location">`)
		xml.EscapeText(buf, []byte(location))
		buf.WriteString("</category>\n")
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) isURL(s string) bool {
	return (len(s) > 7 && s[:7] == "http://") || (len(s) > 8 && s[:8] == "https://")
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
