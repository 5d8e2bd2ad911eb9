package mid

import (
	"context"
	"net/http"

	"github.com/beanapologist/productive-mining/business/web/metrics"
	"github.com/beanapologist/productive-mining/foundation/web"
)

// Metrics updates the request counters for the public API.
func Metrics() web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			metrics.Requests.Inc()

			err := handler(ctx, w, r)
			if err != nil {
				metrics.Errors.Inc()
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return m
}
