package provider

import (
	"errors"

	"github.com/vibast-solutions/ms-go-redsys/app/types"
)

var ErrProviderNotSupported = errors.New("provider is not supported")

// Registry resolves gateway providers by numeric code or by the name used in
// public URLs.
type Registry struct {
	providers map[int32]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	items := make(map[int32]Provider, len(providers))
	for _, p := range providers {
		items[p.Code()] = p
	}
	return &Registry{providers: items}
}

func (r *Registry) Get(code int32) (Provider, error) {
	p, ok := r.providers[code]
	if !ok {
		return nil, ErrProviderNotSupported
	}
	return p, nil
}

// Lookup accepts a provider name ("redsys") or its code ("1").
func (r *Registry) Lookup(name string) (Provider, error) {
	code, ok := types.ParseProviderType(name)
	if !ok {
		return nil, ErrProviderNotSupported
	}
	return r.Get(int32(code))
}
