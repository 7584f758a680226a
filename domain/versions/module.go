package versions

import (
	"github.com/uptrace/bun"
	"go.uber.org/fx"
)

// Module provides ontology version dependencies.
var Module = fx.Options(
	fx.Provide(newStoreFromDB),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)

// newStoreFromDB creates a versions store with the bun DB (fx constructor).
func newStoreFromDB(db *bun.DB) *Store {
	return NewStore(db)
}
