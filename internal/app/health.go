package app

import (
	"context"
	"fmt"

	"codeberg.org/snonux/theni/internal/generator"
	"codeberg.org/snonux/theni/internal/health"
	"codeberg.org/snonux/theni/internal/session"
	"codeberg.org/snonux/theni/internal/vocab"
)

// readinessChecks never wait on the driver goroutine: it may be inside a
// generator call for up to the generator timeout.
func readinessChecks(lib *vocab.Library, driver *session.Driver, gen *generator.Breaker, mode session.Mode) []health.Checker {
	checks := []health.Checker{
		{Name: "vocabulary", Check: func(context.Context) error {
			if n := lib.Len(); n < 2 {
				return fmt.Errorf("only %d words with pictures", n)
			}
			return nil
		}},
		{Name: "session", Check: func(context.Context) error {
			if !driver.Running() {
				return session.ErrDriverStopped
			}
			return nil
		}},
	}

	// only an on-demand default makes the instance useless without the
	// generator; pre-generated sessions keep working
	if gen != nil && mode == session.ModeOnDemand {
		checks = append(checks, health.Checker{Name: "generator", Check: func(context.Context) error {
			if gen.Open() {
				return fmt.Errorf("%s circuit breaker %s", gen.Name(), gen.State())
			}
			return nil
		}})
	}
	return checks
}
