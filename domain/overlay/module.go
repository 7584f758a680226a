package overlay

import "go.uber.org/fx"

// Module provides overlay dependencies.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
