package config

import (
	"fmt"

	"github.com/magiconair/properties"
)

// PropertiesSource reads key=value .properties content.
type PropertiesSource struct {
	props *properties.Properties
}

// LoadProperties reads a .properties file.
func LoadProperties(path string) (*PropertiesSource, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("trying to open notifier config file %s: %w", path, err)
	}
	return newPropertiesSource(p), nil
}

// ParseProperties reads .properties content from a string.
func ParseProperties(content string) (*PropertiesSource, error) {
	p, err := properties.LoadString(content)
	if err != nil {
		return nil, fmt.Errorf("error parsing properties: %w", err)
	}
	return newPropertiesSource(p), nil
}

func newPropertiesSource(p *properties.Properties) *PropertiesSource {
	// ${key} references are left as written.
	p.DisableExpansion = true
	return &PropertiesSource{props: p}
}

func (s *PropertiesSource) Get(key string) (string, bool) {
	return s.props.Get(key)
}
