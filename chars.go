package latextree

import (
	"fmt"
	"strings"
)

// CharsGroupParser parses a delimited group whose interior is kept as
// literal characters. Nested pairs of the same delimiters balance, but no
// construct is recognized inside, so the group holds a single chars node.
// The zero value expects braces; constructs with label-like or key-like
// arguments install it through their parser hook.
type CharsGroupParser struct {
	Open  string
	Close string
}

func (p *CharsGroupParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	open, closer := charsDelims(p.Open, p.Close)

	tz.SkipSpace()
	pos := tz.Pos()
	if !tz.matchString(pos, open) {
		return nil, nil, &ParseError{
			Msg:          fmt.Sprintf("expected %q", open),
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
	}

	openRunes := []rune(open)
	closeRunes := []rune(closer)
	charsState := state.Derive(WithCharsOnly())

	depth := 0
	end := -1
	for i := pos + len(openRunes); i < len(tz.src); {
		if runesHavePrefix(tz.src, i, closeRunes) {
			if depth == 0 {
				end = i
				break
			}
			depth--
			i += len(closeRunes)
			continue
		}
		if open != closer && runesHavePrefix(tz.src, i, openRunes) {
			depth++
			i += len(openRunes)
			continue
		}
		i++
	}

	if end < 0 {
		err := &ParseError{
			Msg:          fmt.Sprintf("expected %q to close the group opened with %q", closer, open),
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
		if !w.Tolerant() {
			return nil, nil, err
		}
		w.recordError(err)

		end = len(tz.src)
		tz.MoveTo(end)
		return &GroupNode{
			NodeInfo: NodeInfo{Pos: pos, End: end, St: state},
			Open:     open,
			Contents: NodeList{&CharsNode{
				NodeInfo: NodeInfo{Pos: pos + len(openRunes), End: end, St: charsState},
				Text:     string(tz.src[pos+len(openRunes) : end]),
			}},
			Incomplete: true,
		}, nil, nil
	}

	tz.MoveTo(end + len(closeRunes))

	return &GroupNode{
		NodeInfo: NodeInfo{Pos: pos, End: end + len(closeRunes), St: state},
		Open:     open,
		Close:    closer,
		Contents: NodeList{&CharsNode{
			NodeInfo: NodeInfo{Pos: pos + len(openRunes), End: end, St: charsState},
			Text:     string(tz.src[pos+len(openRunes) : end]),
		}},
	}, nil, nil
}

// CharsCommaSeparatedListParser parses a delimited group as a list of
// separated literal items, the way reference lists carry their keys. A
// separator inside nested group delimiters does not split. Items are
// trimmed of surrounding whitespace and kept as chars nodes, so the
// separators themselves do not appear among the group contents.
type CharsCommaSeparatedListParser struct {
	Open  string
	Close string
	Sep   string
}

func (p *CharsCommaSeparatedListParser) ParseNode(w *Walker, tz *Tokenizer, state *ParsingState) (Node, *Carryover, error) {
	open, closer := charsDelims(p.Open, p.Close)
	sep := p.Sep
	if sep == "" {
		sep = ","
	}

	tz.SkipSpace()
	pos := tz.Pos()
	if !tz.matchString(pos, open) {
		return nil, nil, &ParseError{
			Msg:          fmt.Sprintf("expected %q", open),
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
	}

	openRunes := []rune(open)
	sepRunes := []rune(sep)
	closeRunes := []rune(closer)
	charsState := state.Derive(WithCharsOnly())

	interior := pos + len(openRunes)
	var splits []int

	depth := 0
	end := -1
	for i := interior; i < len(tz.src); {
		if depth == 0 && runesHavePrefix(tz.src, i, closeRunes) {
			end = i
			break
		}
		if o, ok := tz.matchGroupOpen(state, i); ok {
			depth++
			i += runeCount(o)
			continue
		}
		if c, ok := tz.matchGroupClose(state, i); ok {
			if depth > 0 {
				depth--
			}
			i += runeCount(c)
			continue
		}
		if depth == 0 && runesHavePrefix(tz.src, i, sepRunes) {
			splits = append(splits, i)
			i += len(sepRunes)
			continue
		}
		i++
	}

	node := &GroupNode{
		NodeInfo: NodeInfo{Pos: pos, End: len(tz.src), St: state},
		Open:     open,
	}

	if end < 0 {
		err := &ParseError{
			Msg:          fmt.Sprintf("expected %q to close the list opened with %q", closer, open),
			Pos:          pos,
			OpenContexts: w.openContextList(),
			State:        state,
		}
		if !w.Tolerant() {
			return nil, nil, err
		}
		w.recordError(err)

		node.Incomplete = true
		node.Contents = listItems(tz, charsState, interior, len(tz.src), splits, sepRunes)
		tz.MoveTo(len(tz.src))
		return node, nil, nil
	}

	node.End = end + len(closeRunes)
	node.Close = closer
	node.Contents = listItems(tz, charsState, interior, end, splits, sepRunes)
	tz.MoveTo(node.End)

	return node, nil, nil
}

// listItems cuts the interior at the recorded separator positions and trims
// each piece. An empty interior with no separators yields no items at all.
func listItems(tz *Tokenizer, state *ParsingState, interior, end int, splits []int, sep []rune) NodeList {
	if len(splits) == 0 && strings.TrimSpace(string(tz.src[interior:end])) == "" {
		return nil
	}

	var items NodeList

	start := interior
	for _, split := range append(splits, end) {
		from, to := start, split
		for from < to && isWhitespace(tz.src[from]) {
			from++
		}
		for to > from && isWhitespace(tz.src[to-1]) {
			to--
		}

		items = append(items, &CharsNode{
			NodeInfo: NodeInfo{Pos: from, End: to, St: state},
			Text:     string(tz.src[from:to]),
		})

		start = split + len(sep)
	}

	return items
}

func charsDelims(open, closer string) (string, string) {
	if open == "" {
		return "{", "}"
	}

	return open, closer
}
