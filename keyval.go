package latextree

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var measure = regexp.MustCompile("^(-?[0-9]*(?:\\.[0-9]+)?)(%|\\\\?[a-z ]*)$")

// KeyValue parses key-value option strings in this format: key=value,
// key=value, for example as used in the \includegraphics option argument.
// Keys are lowercased. Values may be quoted with " or ' to protect commas
// and spaces, a backslash escapes the next character inside quotes. Parts
// without a key=value shape are ignored.
func KeyValue(raw string) (map[string]string, error) {
	kv := map[string]string{}

	runes := []rune(raw)
	pos := 0

	for pos < len(runes) {
		pos = skipOptionSpace(runes, pos)
		if pos >= len(runes) {
			break
		}
		if runes[pos] == ',' {
			pos++
			continue
		}

		key, next := readOptionKey(runes, pos)
		pos = next

		if pos >= len(runes) || runes[pos] != '=' {
			// no value, not an option, skip to the next part
			pos = skipToComma(runes, pos)
			continue
		}

		pos = skipOptionSpace(runes, pos+1)

		var value string
		var err error

		if pos < len(runes) && (runes[pos] == '"' || runes[pos] == '\'') {
			value, pos, err = readQuotedValue(runes, pos)
			if err != nil {
				return nil, err
			}
		} else {
			value, pos = readPlainValue(runes, pos)
		}

		if key != "" {
			kv[strings.ToLower(key)] = value
		}

		pos = skipToComma(runes, pos)
	}

	return kv, nil
}

func readOptionKey(runes []rune, pos int) (string, int) {
	start := pos
	for pos < len(runes) && runes[pos] != '=' && runes[pos] != ',' {
		pos++
	}

	return strings.TrimSpace(string(runes[start:pos])), pos
}

// readQuotedValue reads a value bracketed by the quote at the current
// position. A backslash keeps the following character literal.
func readQuotedValue(runes []rune, pos int) (string, int, error) {
	quote := runes[pos]
	pos++

	var value []rune
	for pos < len(runes) {
		switch runes[pos] {
		case '\\':
			if pos+1 < len(runes) {
				value = append(value, runes[pos+1])
				pos += 2
				continue
			}
			value = append(value, '\\')
			pos++
		case quote:
			return string(value), pos + 1, nil
		default:
			value = append(value, runes[pos])
			pos++
		}
	}

	return "", pos, fmt.Errorf("unterminated %q quoted value", string(quote))
}

// readPlainValue reads an unquoted value, which runs to the nearest comma
// or whitespace. Whatever follows up to the comma is ignored.
func readPlainValue(runes []rune, pos int) (string, int) {
	start := pos
	for pos < len(runes) && runes[pos] != ',' && !isWhitespace(runes[pos]) {
		pos++
	}

	return string(runes[start:pos]), pos
}

func skipOptionSpace(runes []rune, pos int) int {
	for pos < len(runes) && isWhitespace(runes[pos]) {
		pos++
	}

	return pos
}

func skipToComma(runes []rune, pos int) int {
	for pos < len(runes) && runes[pos] != ',' {
		pos++
	}

	return pos
}

// Measure parses a measurement value, a number and units, for example:
// 5.1cm, 6em, 0.25\textwidth.
func Measure(raw string) (float32, string, error) {
	match := measure.FindStringSubmatch(raw)
	if len(match) == 0 {
		return 0, "", errors.New("unable to parse measurement")
	}

	number, err := strconv.ParseFloat(match[1], 32)
	if err != nil {
		return 0, "", err
	}

	return float32(number), match[2], nil
}

// MeasurePixels parses a measurement and converts it to pixels.
func MeasurePixels(raw string) (float32, error) {
	n, u, err := Measure(raw)
	if err != nil {
		return 0, err
	}

	return ToPixels(n, u)
}

// cm to pixel at the usual 96dpi
const cmInPixel = 96 / 2.54

func ToPixels(value float32, unit string) (float32, error) {
	switch unit {
	case "pt":
		return float32(value) * cmInPixel / 28.4495, nil
	case "mm":
		return float32(value) * cmInPixel / 10, nil
	case "cm":
		return float32(value) * cmInPixel, nil
	case "in":
		return float32(value) * cmInPixel * 2.54, nil
	case "ex":
		return float32(value) * cmInPixel * 0.15132, nil
	case "em":
		return float32(value) * cmInPixel * 0.35146, nil
	case "px":
		return value, nil
	default:
		return 0, fmt.Errorf("measurement unit %#v is not supported", unit)
	}
}
