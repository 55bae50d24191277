package confloader

import (
	"errors"

	"github.com/knadh/koanf/maps"
)

// mapKoanfProvider implements koanf.Provider for a plain map of
// dot-delimited keys. Used for flag overrides and tests.
type mapKoanfProvider struct {
	data map[string]any
}

func mapProvider(data map[string]any) *mapKoanfProvider {
	return &mapKoanfProvider{data: data}
}

// ReadBytes is not supported for the map provider.
func (p *mapKoanfProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("map provider does not support ReadBytes")
}

// Read returns the nested configuration map.
func (p *mapKoanfProvider) Read() (map[string]any, error) {
	return maps.Unflatten(p.data, "."), nil
}
