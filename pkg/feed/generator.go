// Package feed renders dashboard stories as an RSS 2.0 alert feed and collector sources as OPML.
package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/umputun/storydesk/pkg/domain"
)

// Generator creates RSS alert feeds and OPML source lists
type Generator struct {
	baseURL string
}

// Filter selects stories included in an alert feed
type Filter struct {
	Category string            // empty for all categories, matched case-insensitively
	MinLevel domain.AlertLevel // lowest alert tier included, empty includes all
}

// Source is a collector feed exported to OPML
type Source struct {
	Name string
	URL  string
	Kind domain.SourceKind
}

type rssDoc struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *atomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// NewGenerator creates a new feed generator, baseURL is used for self links
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/")}
}

// GenerateRSS creates an RSS 2.0 feed of dashboard stories passing the filter, in the given order
func (g *Generator) GenerateRSS(stories []domain.DashboardStory, f Filter, now time.Time) (string, error) {
	title := "Storydesk - All Categories"
	selfLink := g.baseURL + "/rss"
	if f.Category != "" {
		title = "Storydesk - " + f.Category
		selfLink += "/" + url.PathEscape(f.Category)
	}
	if f.MinLevel != "" && f.MinLevel != domain.AlertNone {
		title += fmt.Sprintf(" (%s and above)", strings.ToLower(string(f.MinLevel)))
		selfLink += "?level=" + strings.ToLower(string(f.MinLevel))
	}

	items := make([]*rssItem, 0, len(stories))
	for _, ds := range stories {
		if !f.match(ds.Story) {
			continue
		}
		items = append(items, g.convertToRSSItem(ds))
	}

	doc := &rssDoc{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Ranked breaking-news candidates awaiting an editorial decision",
			AtomLink:      &atomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem renders one story with its scores, corroborating sources and claim
func (g *Generator) convertToRSSItem(ds domain.DashboardStory) *rssItem {
	s := ds.Story
	desc := fmt.Sprintf("Score: %.0f (relevance %.0f, velocity %.0f), %s", s.TotalScore, s.RelevanceScore,
		s.VelocityScore, strings.ToLower(string(s.VerificationStatus)))
	if names := sourceNames(ds); len(names) > 0 {
		desc += "\nSources: " + strings.Join(names, ", ")
	}
	if ds.Claim != nil {
		desc += fmt.Sprintf("\nClaimed by %s, article %s", ds.Claim.ClaimedByID, ds.Claim.ArticleID)
	}

	title := fmt.Sprintf("[%.0f] %s", s.TotalScore, s.Headline)
	if s.AlertLevel == domain.AlertTelegram {
		title = "[TELEGRAM] " + title
	}

	categories := []string{}
	if s.Category != "" {
		categories = append(categories, s.Category)
	}

	return &rssItem{
		Title:       title,
		Link:        s.SourceURL,
		GUID:        rssGUID{Value: fmt.Sprintf("storydesk-story-%d", s.ID)},
		Description: desc,
		PubDate:     s.FirstSeenAt.UTC().Format(time.RFC1123Z),
		Categories:  categories,
	}
}

// GenerateOPML creates an OPML file with the collector feeds, for importing them into a reader
func (g *Generator) GenerateOPML(sources []Source, now time.Time) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
		Kind    string   `xml:"category,attr,omitempty"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, src := range sources {
		if src.URL == "" {
			continue
		}
		name := src.Name
		if name == "" {
			name = src.URL
		}
		outlines = append(outlines, outline{Text: name, Title: name, Type: "rss", XMLUrl: src.URL, Kind: string(src.Kind)})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "Storydesk Sources", DateCreated: now.UTC().Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}

func (f Filter) match(s *domain.Story) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, s.Category) {
		return false
	}
	return levelRank(s.AlertLevel) >= levelRank(f.MinLevel)
}

func levelRank(l domain.AlertLevel) int {
	switch l {
	case domain.AlertTelegram:
		return 2
	case domain.AlertDashboard:
		return 1
	default:
		return 0
	}
}

// sourceNames lists distinct source names of the story, verification sources first
func sourceNames(ds domain.DashboardStory) []string {
	seen := map[string]bool{}
	var res []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			res = append(res, name)
		}
	}
	for _, v := range ds.Verification {
		add(v.SourceName)
	}
	for _, name := range ds.Story.Sources {
		add(name)
	}
	return res
}
