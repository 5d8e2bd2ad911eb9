// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/beanapologist/productive-mining/app/services/platform/handlers/v1/public"
	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/state"
	"github.com/beanapologist/productive-mining/foundation/web"
	"go.uber.org/zap"
)

// The dashboard consumes the API under the /api prefix.
const version = "api"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/discoveries", pbl.Discoveries)
	app.Handle(http.MethodGet, version, "/discoveries/:id", pbl.DiscoveryByID)
	app.Handle(http.MethodGet, version, "/blocks", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/:id", pbl.BlockByID)
	app.Handle(http.MethodGet, version, "/blocks/:id/work", pbl.BlockWork)
	app.Handle(http.MethodGet, version, "/mining/operations", pbl.Operations)
	app.Handle(http.MethodPost, version, "/mining/start", pbl.StartOperation)
	app.Handle(http.MethodDelete, version, "/mining/operations/:id", pbl.CancelOperation)
	app.Handle(http.MethodGet, version, "/metrics", pbl.Metrics)
	app.Handle(http.MethodGet, version, "/statistics", pbl.Statistics)
	app.Handle(http.MethodGet, version, "/validations", pbl.Validations)
	app.Handle(http.MethodGet, version, "/validators", pbl.Validators)
	app.Handle(http.MethodPost, version, "/validations/submit", pbl.SubmitValidation)
	app.Handle(http.MethodGet, version, "/integrity", pbl.Integrity)
	app.Handle(http.MethodPost, version, "/blockchain/restart", pbl.Restart)

	// The websocket feed lives outside the /api prefix.
	app.Handle(http.MethodGet, "", "/ws", pbl.Events)
}
