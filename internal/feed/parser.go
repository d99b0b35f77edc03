package feed

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
)

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// node is one element of the parsed document tree: name, attributes,
// directly enclosed character data and child elements, in document order.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

func (n *node) attr(name string) string {
	return n.attrs[name]
}

// Parse extracts a rate snapshot from a feed document. It never fails:
// the snapshot date comes from the first cube element carrying a
// well-formed date attribute, and every rate element whose currency,
// multiplier and value are well formed contributes an entry, in document
// order. Anything else in the document is ignored, and malformed input
// degrades to an empty snapshot.
func Parse(raw []byte) domain.RateSnapshot {
	root := parseTree(raw)

	var snapshot domain.RateSnapshot
	if cube := findFirst(root, func(n *node) bool {
		return n.name == "Cube" && datePattern.MatchString(n.attr("date"))
	}); cube != nil {
		snapshot.Date = cube.attr("date")
	}

	walk(root, func(n *node) {
		if entry, ok := rateEntry(n); ok {
			snapshot.Entries = append(snapshot.Entries, entry)
		}
	})

	return snapshot
}

// parseTree decodes raw bytes into an element tree under a synthetic root.
// Decoding is non-strict and stops quietly at the first unrecoverable
// syntax error, keeping whatever was read up to that point.
func parseTree(raw []byte) *node {
	root := &node{name: ""}
	stack := []*node{root}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err != nil {
			return root
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &node{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				child.attrs[a.Name.Local] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, child)
			stack = append(stack, child)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			current := stack[len(stack)-1]
			current.text += string(t)
		}
	}
}

// rateEntry reads one rate element. It returns false for anything that
// does not match the expected shape: element named Rate, a 3-letter
// uppercase currency attribute, an optional positive integer multiplier
// attribute and a positive decimal as its direct text content.
func rateEntry(n *node) (domain.RateEntry, bool) {
	if n.name != "Rate" || len(n.children) > 0 {
		return domain.RateEntry{}, false
	}

	currency := n.attr("currency")
	if !currencyPattern.MatchString(currency) {
		return domain.RateEntry{}, false
	}

	multiplier := 1
	if raw, ok := n.attrs["multiplier"]; ok {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 {
			return domain.RateEntry{}, false
		}
		multiplier = m
	}

	value, err := decimal.NewFromString(strings.TrimSpace(n.text))
	if err != nil || !value.IsPositive() {
		return domain.RateEntry{}, false
	}

	return domain.RateEntry{
		Currency:   currency,
		Value:      value,
		Multiplier: multiplier,
	}, true
}

// findFirst returns the first node in document order satisfying pred.
func findFirst(n *node, pred func(*node) bool) *node {
	if pred(n) {
		return n
	}
	for _, c := range n.children {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// walk visits every node in document order.
func walk(n *node, visit func(*node)) {
	visit(n)
	for _, c := range n.children {
		walk(c, visit)
	}
}
