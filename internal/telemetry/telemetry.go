package telemetry

import "github.com/google/wire"

// ProviderSet trace 與 metric
var ProviderSet = wire.NewSet(NewTrace, NewMetric)
