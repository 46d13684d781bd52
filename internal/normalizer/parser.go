// Package normalizer turns SwissRETS XML into a nested map and reshapes the
// image collections the page builder consumes.
package normalizer

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Parser converts XML into map[string]any.
//
// Attribute values and trimmed element text that look numeric or boolean
// are returned typed (int64, float64, bool). Leading zeros are dropped, so
// "08001" becomes 8001.
type Parser struct {
	// AttributePrefix is prepended to attribute field names, e.g. "@_"
	AttributePrefix string
	// TextKey holds element text when the element also has attributes or children
	TextKey string
	// ArrayElements are always materialized as []any, even with one occurrence
	ArrayElements []string
	// Declaration keeps the XML declaration under DeclarationKey
	Declaration bool
}

// DeclarationKey holds the pseudo-attributes of <?xml ...?>
const DeclarationKey = "?xml"

type node struct {
	name   string
	fields map[string]any
	text   strings.Builder
}

// add stores a child value. Element values are strings or maps, so any []any
// already present is a collection built here.
func (n *node) add(name string, value any, forceArray bool) {
	switch existing := n.fields[name].(type) {
	case nil:
		if forceArray {
			n.fields[name] = []any{value}
		} else {
			n.fields[name] = value
		}
	case []any:
		n.fields[name] = append(existing, value)
	default:
		n.fields[name] = []any{existing, value}
	}
}

// Parse decodes the whole document. The result has a single key per root
// element.
func (p *Parser) Parse(data []byte) (map[string]any, error) {
	arrays := make(map[string]bool, len(p.ArrayElements))
	for _, name := range p.ArrayElements {
		arrays[name] = true
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	root := &node{fields: map[string]any{}}
	stack := []*node{root}
	var declaration map[string]any

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Offset: dec.InputOffset(), Err: fmt.Errorf("%w: %v", ErrMalformedXML, err)}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, fields: map[string]any{}}
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}
				key := p.AttributePrefix + attr.Name.Local
				n.fields[key] = coerceValue(attr.Value)
			}
			stack = append(stack, n)

		case xml.EndElement:
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].add(n.name, p.finish(n), arrays[n.name])

		case xml.CharData:
			if len(stack) > 1 {
				stack[len(stack)-1].text.Write(t)
			}

		case xml.ProcInst:
			if p.Declaration && t.Target == "xml" && len(stack) == 1 {
				declaration = p.declaration(t.Inst)
			}
		}
	}

	if len(stack) != 1 {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: fmt.Errorf("%w: unexpected end of document", ErrMalformedXML)}
	}
	if len(root.fields) == 0 {
		return nil, &ParseError{Err: ErrEmptyDocument}
	}
	if declaration != nil {
		root.fields[DeclarationKey] = declaration
	}
	return root.fields, nil
}

var pseudoAttrPattern = regexp.MustCompile(`([A-Za-z_][\w.-]*)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// declaration reads version, encoding and standalone like element attributes
func (p *Parser) declaration(inst []byte) map[string]any {
	fields := map[string]any{}
	for _, m := range pseudoAttrPattern.FindAllSubmatch(inst, -1) {
		value := string(m[2])
		if len(m[3]) > 0 {
			value = string(m[3])
		}
		fields[p.AttributePrefix+string(m[1])] = coerceValue(value)
	}
	return fields
}

func (p *Parser) finish(n *node) any {
	text := strings.TrimSpace(n.text.String())
	if len(n.fields) == 0 {
		if text == "" {
			return ""
		}
		return coerceValue(text)
	}
	if text != "" {
		n.fields[p.TextKey] = coerceValue(text)
	}
	return n.fields
}

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// coerceValue mirrors what front-ends have always received: "true"/"false"
// become booleans and numeric strings become numbers.
func coerceValue(v string) any {
	s := strings.TrimSpace(v)
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if !numberPattern.MatchString(s) {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
