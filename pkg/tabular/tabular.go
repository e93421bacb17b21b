// Package tabular turns upstream responses into CSV lines.
//
// Cells are joined with bare commas; values containing commas are not quoted.
package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PreambleLines is the number of leading comment lines the metrics service
// prepends to every CSV download.
const PreambleLines = 5

// TrimPreamble splits body on newlines and drops the first PreambleLines lines.
func TrimPreamble(body string) []string {
	lines := strings.Split(body, "\n")
	if len(lines) <= PreambleLines {
		return []string{}
	}
	return lines[PreambleLines:]
}

// ScrapeTable extracts the first table in body and reflows its text into rows
// of nCols cells. A document without a table yields an empty slice.
func ScrapeTable(body []byte, nCols int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return []string{}, nil
	}
	return ToCSVLines(StrippedStrings(table.Nodes[0]), nCols), nil
}

// StrippedStrings returns every non-blank text node under node in document
// order, trimmed of surrounding whitespace.
func StrippedStrings(node *html.Node) []string {
	var out []string
	collectStrings(node, &out)
	return out
}

func collectStrings(node *html.Node, out *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		if s := strings.TrimSpace(node.Data); s != "" {
			*out = append(*out, s)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectStrings(child, out)
	}
}

// ToCSVLines groups cells into consecutive rows of nCols and joins each row
// with commas. A trailing partial row is dropped.
func ToCSVLines(cells []string, nCols int) []string {
	if nCols <= 0 {
		return nil
	}
	rows := len(cells) / nCols
	out := make([]string, 0, rows)
	for k := 0; k < rows; k++ {
		out = append(out, strings.Join(cells[k*nCols:(k+1)*nCols], ","))
	}
	return out
}
