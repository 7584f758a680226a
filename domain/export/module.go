package export

import "go.uber.org/fx"

// Module provides export dependencies.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
