package sportsref

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/riskibarqy/hoops-hub/internal/normalize"
)

// Roster rows carry a data-append-csv attribute; cells are keyed by data-stat.
const (
	rowMarkerAttr = "data-append-csv"
	cellKeyAttr   = "data-stat"
)

// ParseRoster extracts player rows from a season page. Rows without a
// player name are skipped.
func ParseRoster(r io.Reader) ([]normalize.ScrapedRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	out := make([]normalize.ScrapedRow, 0, 16)
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Tr || !hasAttr(n, rowMarkerAttr) {
			return true
		}
		cells := rowCells(n)
		name := cells["player"]
		if name != "" {
			out = append(out, normalize.ScrapedRow{
				Name:     name,
				Number:   cells["number"],
				Position: cells["pos"],
				Hometown: cells["hometown"],
				Class:    cells["class"],
			})
		}
		return false
	})
	return out, nil
}

func rowCells(tr *html.Node) map[string]string {
	cells := make(map[string]string, 8)
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		key := attr(c, cellKeyAttr)
		if key == "" {
			continue
		}
		if _, seen := cells[key]; !seen {
			cells[key] = strings.Join(strings.Fields(textContent(c)), " ")
		}
	}
	return cells
}

// walk visits nodes depth-first; returning false skips a node's children.
func walk(n *html.Node, visit func(*html.Node) bool) {
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		return true
	})
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
