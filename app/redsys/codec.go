package redsys

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

var (
	toURLSafe   = strings.NewReplacer("+", "-", "/", "_")
	fromURLSafe = strings.NewReplacer("-", "+", "_", "/")
)

func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes standard Base64. Missing padding is tolerated.
func Base64Decode(value string) ([]byte, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(value), "="))
	if err != nil {
		return nil, &EncodingError{Format: "base64", Err: err}
	}
	return decoded, nil
}

// Base64URLEncode encodes with the standard alphabet and swaps "+/" for "-_".
// Padding is kept, the gateway sends it back the same way.
func Base64URLEncode(data []byte) string {
	return toURLSafe.Replace(Base64Encode(data))
}

// Base64URLDecode accepts both alphabets, with or without padding.
func Base64URLDecode(value string) ([]byte, error) {
	return Base64Decode(fromURLSafe.Replace(value))
}

// JSONEncode serializes v without escaping HTML characters so that URLs
// containing query strings are sent verbatim.
func JSONEncode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", &EncodingError{Format: "json", Err: err}
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// JSONDecode parses a JSON object. Numbers are kept as json.Number so that
// values like "0099" or large amounts survive the round trip.
func JSONDecode(value string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, &EncodingError{Format: "json", Err: err}
	}
	if fields == nil {
		return nil, &EncodingError{Format: "json", Err: errors.New("expected an object")}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &EncodingError{Format: "json", Err: errors.New("trailing data after object")}
	}
	return fields, nil
}

type xmlNode struct {
	children map[string]any
	text     strings.Builder
}

// XMLToMap turns a document into nested maps keyed by element name. The root
// element itself is dropped, leaves become trimmed strings and repeated
// siblings are collected into a []any.
func XMLToMap(document string) (map[string]any, error) {
	dec := xml.NewDecoder(strings.NewReader(document))

	var stack []*xmlNode
	var root map[string]any
	for root == nil {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &EncodingError{Format: "xml", Err: errors.New("document has no root element")}
		}
		if err != nil {
			return nil, &EncodingError{Format: "xml", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, &xmlNode{})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = node.children
				if root == nil {
					root = map[string]any{}
				}
				break
			}

			var value any = strings.TrimSpace(node.text.String())
			if node.children != nil {
				value = node.children
			}
			appendChild(stack[len(stack)-1], t.Name.Local, value)
		}
	}

	return root, nil
}

func appendChild(parent *xmlNode, name string, value any) {
	if parent.children == nil {
		parent.children = map[string]any{}
	}
	existing, ok := parent.children[name]
	if !ok {
		parent.children[name] = value
		return
	}
	if list, ok := existing.([]any); ok {
		parent.children[name] = append(list, value)
		return
	}
	parent.children[name] = []any{existing, value}
}
