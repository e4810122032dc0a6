/*
Package resilience provides a circuit breaker for operations that can fail
repeatedly, such as reloading a catalog from a broken index directory.

# States

	Closed --[ReadyToTrip]-> Open --[Cooldown]-> Half-Open --[MaxRequests successes]-> Closed
	                                                 |
	                                             [failure]
	                                                 v
	                                                Open

While open, calls fail fast with ErrCircuitOpen. Calls that end because
their context was canceled are not counted.

# Usage

	breaker := resilience.New("catalog-reload", resilience.Settings{
		Cooldown:    30 * time.Second,
		ReadyToTrip: resilience.ConsecutiveFailures(3),
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Breaker state changed", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	report, err := resilience.Do(ctx, breaker, seeder.Seed)
*/
package resilience
