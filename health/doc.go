// Package health probes the reachability of the platform's backend
// microservices from the client side.
//
// Each service gets an Endpoint prober that calls its health path through
// the service's api.Client with retries disabled: a probe exists to observe
// outages, not to paper over them. An Aggregator runs all probes
// concurrently (bounded) and folds the results into one fleet status.
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewEndpoint(health.EndpointConfig{
//	    Name:     "weather",
//	    Client:   weatherClient,
//	    Critical: true,
//	}))
//
//	results := agg.CheckAll(ctx)
//	status := agg.OverallStatus(results)
//
// A failing non-critical service degrades the fleet; a failing critical one
// marks it unhealthy.
package health
