//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/gravityfield/internal/core/gravity"
)

func InitializeApp(path ConfigPath, finder gravity.Finder) (*App, error) {
	wire.Build(DirectorSet, wire.Struct(new(App), "*"))
	return nil, nil
}
