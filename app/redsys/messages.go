package redsys

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var catalogFiles embed.FS

// Message describes a gateway response or SIS error code.
type Message struct {
	Code string `yaml:"code" json:"code"`
	Text string `yaml:"message" json:"message"`
}

type catalog struct {
	numeric map[int]Message
	named   map[string]Message
	all     []Message
}

// loadCatalog reads the embedded tables once per process.
var loadCatalog = sync.OnceValues(func() (*catalog, error) {
	files, err := fs.Glob(catalogFiles, "data/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	c := &catalog{numeric: map[int]Message{}, named: map[string]Message{}}
	for _, name := range files {
		raw, err := catalogFiles.ReadFile(name)
		if err != nil {
			return nil, err
		}
		var entries []Message
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for _, entry := range entries {
			if n, ok := numericCode(entry.Code); ok {
				c.numeric[n] = entry
			} else {
				c.named[strings.ToUpper(entry.Code)] = entry
			}
			c.all = append(c.all, entry)
		}
	}
	return c, nil
})

func numericCode(code string) (int, bool) {
	if code == "" {
		return 0, false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(code)
	return n, err == nil
}

// MessageByCode looks up a code given as a string or any integer kind. Codes made of
// digits only are compared numerically, so "0000" and 0 are the same entry.
// It returns nil for unknown codes.
func MessageByCode(code any) *Message {
	c, err := loadCatalog()
	if err != nil {
		return nil
	}

	var key string
	switch v := code.(type) {
	case string:
		key = strings.TrimSpace(v)
	case json.Number:
		key = v.String()
	default:
		rv := reflect.ValueOf(code)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			key = strconv.FormatInt(rv.Int(), 10)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			key = strconv.FormatUint(rv.Uint(), 10)
		default:
			return nil
		}
	}

	var (
		msg Message
		ok  bool
	)
	if n, isNum := numericCode(key); isNum {
		msg, ok = c.numeric[n]
	} else {
		msg, ok = c.named[strings.ToUpper(key)]
	}
	if !ok {
		return nil
	}
	return &msg
}

// Messages returns every catalogued entry.
func Messages() ([]Message, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return append([]Message(nil), c.all...), nil
}
