package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestSelectionText(t *testing.T) {
	testCases := []struct {
		html     string
		selector string
		expected string
	}{
		{
			html:     `<div><h6>  The Legend of Zelda:
			Tears of the Kingdom </h6></div>`,
			selector: "h6",
			expected: "The Legend of Zelda: Tears of the Kingdom",
		},
		{
			html:     `<div><strong>$59.99</strong></div>`,
			selector: "strong",
			expected: "$59.99",
		},
		{
			html:     `<div><span>nested <b>bold</b> tail</span></div>`,
			selector: "span",
			expected: "nested bold tail",
		},
		{
			html:     `<div><p>nothing here</p></div>`,
			selector: "h1",
			expected: "",
		},
	}

	for _, test := range testCases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(test.html))
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, test.expected, SelectionText(doc.Find(test.selector)))
	}
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "a b", CleanText(" a \n\t b "))
	require.Equal(t, "", CleanText("\n\t "))
}
