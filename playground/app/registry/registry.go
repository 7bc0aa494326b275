package registry

import "github.com/a-peyrard/hypo"

//go:generate go run github.com/a-peyrard/hypo/cmd/generator

type Registry struct {
	hypo.EmptyRegistry
}
