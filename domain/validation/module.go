package validation

import "go.uber.org/fx"

// Module provides validation dependencies.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
