package browser

import (
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bodyText returns the visible text of the current page.
func (c *Client) bodyText() (string, error) {
	content, err := c.page.Content()
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse page content: %w", err)
	}
	return doc.Find("body").Text(), nil
}

// inspectPage logs what is actually on the page, to help diagnose
// selector mismatches when the expected elements never appear.
func (c *Client) inspectPage(label string) {
	log.Printf("=== page inspection: %s ===", label)
	log.Printf("current URL: %s", c.page.URL())

	content, err := c.page.Content()
	if err != nil {
		log.Printf("could not read page content: %v", err)
		return
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		log.Printf("could not parse page content: %v", err)
		return
	}

	banefelt := doc.Find("span.banefelt")
	log.Printf("found %d span.banefelt elements (any state)", banefelt.Length())
	banefelt.EachWithBreak(func(i int, s *goquery.Selection) bool {
		classes, _ := s.Attr("class")
		onclick, _ := s.Attr("onclick")
		if len(onclick) > 50 {
			onclick = onclick[:50] + "..."
		}
		log.Printf("  [%d] class=%s onclick=%s", i, classes, onclick)
		return i < 2 // log the first few only
	})

	titled := doc.Find("div[title]")
	log.Printf("found %d div[title] elements, those mentioning booking:", titled.Length())
	titled.Each(func(i int, s *goquery.Selection) {
		title, _ := s.Attr("title")
		if strings.Contains(strings.ToLower(title), "book") {
			log.Printf("  [%d] title=%q", i, title)
		}
	})
	log.Println("=== end inspection ===")
}
