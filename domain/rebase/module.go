package rebase

import "go.uber.org/fx"

// Module provides rebase dependencies.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
