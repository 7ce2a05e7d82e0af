package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// The name parameter uniquely identifies the circuit breaker instance.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	switch name {
	case "Redis-OTP":
		timeout = 5 * time.Second
	default:
		timeout = 30 * time.Second // RabbitMQ and other operations
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Open circuit after 3 consecutive failures
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}
