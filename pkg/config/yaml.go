package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// YAMLSource flattens a YAML document into dotted keys, so both
//
//	mail:
//	  host: smtp.example.com
//
// and "mail.host: smtp.example.com" yield the key mail.host. Sequences are
// joined with commas.
type YAMLSource struct {
	values map[string]string
}

// LoadYAML reads a YAML file.
func LoadYAML(path string) (*YAMLSource, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trying to open notifier config file %s: %w", path, err)
	}
	src, err := ParseYAML(content)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling YAML %s: %w", path, err)
	}
	return src, nil
}

// ParseYAML reads YAML content.
func ParseYAML(content []byte) (*YAMLSource, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	src := &YAMLSource{values: map[string]string{}}
	src.flatten("", doc)
	return src, nil
}

func (s *YAMLSource) flatten(prefix string, doc yaml.MapSlice) {
	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := item.Value.(type) {
		case yaml.MapSlice:
			s.flatten(key, v)
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, e := range v {
				parts = append(parts, fmt.Sprint(e))
			}
			s.values[key] = strings.Join(parts, ",")
		case nil:
			s.values[key] = ""
		default:
			s.values[key] = fmt.Sprint(v)
		}
	}
}

func (s *YAMLSource) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}
