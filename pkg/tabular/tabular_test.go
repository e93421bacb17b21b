package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const censorshipPage = `
<html>
  <body>
    <h2>Top-10 countries by possible censorship events</h2>
    <table class="table">
      <thead>
        <tr><th>Country</th><th>Downturns</th><th>Upturns</th></tr>
      </thead>
      <tbody>
        <tr><td><a href="#">Iran</a></td><td> 12 </td><td>3</td></tr>
        <!-- generated -->
        <tr><td>China</td><td>8</td><td>
            1
        </td></tr>
      </tbody>
    </table>
    <table><tr><td>ignored</td></tr></table>
  </body>
</html>`

func TestToCSVLinesDropsPartialRow(t *testing.T) {
	cells := []string{"US", "10", "5%", "DE", "8", "4%", "FR", "3"}

	got := ToCSVLines(cells, 3)

	assert.Equal(t, []string{"US,10,5%", "DE,8,4%"}, got)
}

func TestToCSVLinesRowCount(t *testing.T) {
	for l := 0; l < 10; l++ {
		cells := make([]string, l)
		for i := range cells {
			cells[i] = "c"
		}
		assert.Len(t, ToCSVLines(cells, 3), l/3, "len=%d", l)
	}
	assert.Nil(t, ToCSVLines([]string{"a"}, 0))
}

func TestToCSVLinesDoesNotEscapeCommas(t *testing.T) {
	got := ToCSVLines([]string{"Korea, Republic of", "1"}, 2)
	assert.Equal(t, []string{"Korea, Republic of,1"}, got)
}

func TestTrimPreamble(t *testing.T) {
	body := strings.Join([]string{
		"# © The Tor Project",
		"# Data from metrics",
		"# start 2021-08-10",
		"# end 2021-11-16",
		"# country all",
		"date,country,users",
		"2021-08-10,,2000000",
	}, "\n")

	assert.Equal(t, []string{"date,country,users", "2021-08-10,,2000000"}, TrimPreamble(body))
}

func TestTrimPreambleShortBodies(t *testing.T) {
	for _, body := range []string{"", "a", "a\nb\nc\nd\ne"} {
		got := TrimPreamble(body)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
	// a trailing newline leaves an empty final element
	assert.Equal(t, []string{"f", ""}, TrimPreamble("a\nb\nc\nd\ne\nf\n"))
}

func TestScrapeTableFirstTableOnly(t *testing.T) {
	lines, err := ScrapeTable([]byte(censorshipPage), 3)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Country,Downturns,Upturns",
		"Iran,12,3",
		"China,8,1",
	}, lines)
}

func TestScrapeTableWithoutTable(t *testing.T) {
	lines, err := ScrapeTable([]byte("<html><body><p>maintenance</p></body></html>"), 3)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestScrapeTableDropsTrailingCells(t *testing.T) {
	page := `<table><tr><td>US</td><td>10</td><td>5%</td></tr><tr><td>FR</td><td>3</td></tr></table>`

	lines, err := ScrapeTable([]byte(page), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"US,10,5%"}, lines)
}
