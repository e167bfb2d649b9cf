package entity

import (
	"fmt"
	"sort"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

var factories = map[string]func() model.Record{
	"folder":       func() model.Record { return NewFolder() },
	"folder-tree":  func() model.Record { return NewFolderNode() },
	"notification": func() model.Record { return BlankNotification() },
	"tag":          func() model.Record { return NewTag() },
}

// Factory returns the empty-record constructor registered under name.
func Factory(name string) (func() model.Record, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown model %q (known: %v)", ErrInvalidInput, name, ModelNames())
	}
	return f, nil
}

// ModelNames returns the registered model names in sorted order.
func ModelNames() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Hydrators returns a model.Registry over every registered model.
func Hydrators() model.Registry {
	reg := make(model.Registry, len(factories))
	for name, f := range factories {
		reg[name] = model.HydratorFor(f)
	}
	return reg
}
