// Package priceutil turns display price strings into amounts. Listing
// pages mix locales ("$19.99", "1.234,56", "1,234.56") and sometimes
// render bare digit runs that encode cents ("1135000" means 11350.00),
// so parsing is a disambiguation heuristic rather than a strconv call.
package priceutil

import (
	"fmt"
	"strconv"
	"strings"
)

var UnparseablePrice = fmt.Errorf("unparseable price text")

// Parse converts raw price text into a numeric amount.
//
// The separator heuristic, in priority order:
//  1. only digits, commas and dots are considered.
//  2. a comma present means dot is a thousands separator and comma the
//     decimal separator ("1.234,56" -> 1234.56).
//  3. otherwise a dot present means dot is the decimal separator
//     ("1,234.56" -> 1234.56).
//  4. otherwise the run of bare digits encodes a minor-unit amount in
//     its last two digits ("1135000" -> 11350.00). A single digit is a
//     whole-unit amount and an empty remainder parses to 0.
//
// Any other shape returns 0 and UnparseablePrice. The value is always
// usable, callers log the error and keep going.
func Parse(raw string) (float64, error) {
	var cleaned strings.Builder
	for _, c := range raw {
		if (c >= '0' && c <= '9') || c == ',' || c == '.' {
			cleaned.WriteRune(c)
		}
	}
	text := cleaned.String()

	if strings.ContainsRune(text, ',') {
		text = strings.ReplaceAll(text, ".", "")
		text = strings.ReplaceAll(text, ",", ".")
		return parseDecimal(text)
	}
	if strings.ContainsRune(text, '.') {
		return parseDecimal(text)
	}

	// bare digit run
	switch {
	case text == "":
		return 0, nil
	case len(text) == 1:
		return parseDecimal(text)
	default:
		return parseDecimal(text[:len(text)-2] + "." + text[len(text)-2:])
	}
}

func parseDecimal(text string) (float64, error) {
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, UnparseablePrice
	}
	return value, nil
}
