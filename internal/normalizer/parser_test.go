package normalizer

import (
	"errors"
	"testing"
)

func prefixedParser() *Parser {
	return &Parser{AttributePrefix: "@_", TextKey: "#text", ArrayElements: []string{"property"}}
}

func TestParseSingletonListingIsArray(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<export>
  <properties>
    <property id="p1"><title>Loft</title></property>
  </properties>
</export>`

	doc, err := prefixedParser().Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	export := doc["export"].(map[string]any)
	properties := export["properties"].(map[string]any)
	list, ok := properties["property"].([]any)
	if !ok {
		t.Fatalf("Expected property to be a list, got %T", properties["property"])
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 property, got %d", len(list))
	}

	p := list[0].(map[string]any)
	if p["@_id"] != "p1" {
		t.Errorf("Expected @_id p1, got %v", p["@_id"])
	}
	if p["title"] != "Loft" {
		t.Errorf("Expected title Loft, got %v", p["title"])
	}
}

func TestParseRepeatedElements(t *testing.T) {
	xml := `<root><tag>a</tag><tag>b</tag><tag>c</tag><one>x</one></root>`

	doc, err := prefixedParser().Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	root := doc["root"].(map[string]any)
	tags, ok := root["tag"].([]any)
	if !ok || len(tags) != 3 {
		t.Fatalf("Expected 3 tags, got %v", root["tag"])
	}
	for i, want := range []string{"a", "b", "c"} {
		if tags[i] != want {
			t.Errorf("Tag %d: expected %s, got %v", i, want, tags[i])
		}
	}
	if root["one"] != "x" {
		t.Errorf("Single non-listed element should stay scalar, got %v", root["one"])
	}
}

func TestParseAttributesAndText(t *testing.T) {
	tests := []struct {
		name   string
		parser *Parser
		idKey  string
		text   string
	}{
		{"prefixed", &Parser{AttributePrefix: "@_", TextKey: "#text"}, "@_lang", "#text"},
		{"unprefixed", &Parser{TextKey: "value"}, "lang", "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := tt.parser.Parse([]byte(`<title lang="de">  Schöne Wohnung  </title>`))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			title := doc["title"].(map[string]any)
			if title[tt.idKey] != "de" {
				t.Errorf("Expected %s=de, got %v", tt.idKey, title[tt.idKey])
			}
			if title[tt.text] != "Schöne Wohnung" {
				t.Errorf("Expected trimmed text, got %q", title[tt.text])
			}
		})
	}
}

func TestParseAttributeCoercion(t *testing.T) {
	xml := `<price currency="CHF" amount="1250" rate="0.25" negotiable="true" hidden="false" ref="00123" code="1e3x"/>`

	doc, err := prefixedParser().Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	price := doc["price"].(map[string]any)

	checks := map[string]any{
		"@_currency":   "CHF",
		"@_amount":     int64(1250),
		"@_rate":       0.25,
		"@_negotiable": true,
		"@_hidden":     false,
		"@_ref":        int64(123),
		"@_code":       "1e3x",
	}
	for key, want := range checks {
		if got := price[key]; got != want {
			t.Errorf("%s: expected %v (%T), got %v (%T)", key, want, want, got, got)
		}
	}
}

func TestParseTextCoercion(t *testing.T) {
	xml := `<property id="7"><price>1500</price><active>true</active><area>72.5</area><zip>08001</zip><title>Loft 3</title><rooms unit="count">4</rooms></property>`

	doc, err := prefixedParser().Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	property := doc["property"].([]any)[0].(map[string]any)

	checks := map[string]any{
		"@_id":   int64(7),
		"price":  int64(1500),
		"active": true,
		"area":   72.5,
		"zip":    int64(8001),
		"title":  "Loft 3",
	}
	for key, want := range checks {
		if got := property[key]; got != want {
			t.Errorf("%s: expected %v (%T), got %v (%T)", key, want, want, got, got)
		}
	}

	rooms := property["rooms"].(map[string]any)
	if rooms["#text"] != int64(4) {
		t.Errorf("Expected text value 4 next to attributes, got %v (%T)", rooms["#text"], rooms["#text"])
	}
}

func TestParseDeclaration(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding='UTF-8' standalone="yes"?><export><count>2</count></export>`)

	p := prefixedParser()
	p.Declaration = true
	doc, err := p.Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	decl, ok := doc[DeclarationKey].(map[string]any)
	if !ok {
		t.Fatalf("Expected declaration entry, got %v", doc[DeclarationKey])
	}
	if decl["@_version"] != 1.0 || decl["@_encoding"] != "UTF-8" || decl["@_standalone"] != "yes" {
		t.Errorf("Unexpected declaration fields %v", decl)
	}

	doc, err = prefixedParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := doc[DeclarationKey]; ok {
		t.Error("Declaration must be dropped unless enabled")
	}
}

func TestParseDeclarationOnly(t *testing.T) {
	p := prefixedParser()
	p.Declaration = true
	if _, err := p.Parse([]byte(`<?xml version="1.0"?>`)); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected empty document error, got %v", err)
	}
}

func TestParseEmptyElement(t *testing.T) {
	doc, err := prefixedParser().Parse([]byte(`<root><empty/><blank>   </blank></root>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := doc["root"].(map[string]any)
	if root["empty"] != "" || root["blank"] != "" {
		t.Errorf("Expected empty strings, got %v and %v", root["empty"], root["blank"])
	}
}

func TestParseCDATA(t *testing.T) {
	doc, err := prefixedParser().Parse([]byte(`<desc><![CDATA[<b>bold</b>]]></desc>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc["desc"] != "<b>bold</b>" {
		t.Errorf("Unexpected CDATA value %v", doc["desc"])
	}
}

func TestParseLatin1(t *testing.T) {
	data := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><city>Z`), 0xfc, 'r', 'i', 'c', 'h')
	data = append(data, []byte(`</city>`)...)

	doc, err := prefixedParser().Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc["city"] != "Zürich" {
		t.Errorf("Expected Zürich, got %v", doc["city"])
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"mismatched tags", `<a><b></a>`, ErrMalformedXML},
		{"unclosed", `<a><b>text</b>`, ErrMalformedXML},
		{"html error page", `<html><body><p>oops</body></html>`, ErrMalformedXML},
		{"empty", ``, ErrEmptyDocument},
		{"only whitespace", "  \n ", ErrEmptyDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prefixedParser().Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Expected parse error")
			}
			if !IsParseError(err) {
				t.Errorf("Expected *ParseError, got %T", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
