// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/beanapologist/productive-mining/business/web/errs"
	"github.com/beanapologist/productive-mining/business/web/metrics"
	"github.com/beanapologist/productive-mining/foundation/events"
	"github.com/beanapologist/productive-mining/foundation/platform/state"
	"github.com/beanapologist/productive-mining/foundation/platform/work"
	"github.com/beanapologist/productive-mining/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Pagination settings for list endpoints.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Handlers manages the set of platform endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client. On connect the
// client receives exactly one initial_data snapshot, after that only live
// events are relayed.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// Once the upgrade starts the connection is hijacked, so errors from
	// here on cannot flow back through the middleware chain. Upgrade has
	// already replied to the client on failure.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Infow("websocket upgrade failed", "traceid", v.TraceID, "ERROR", err)
		return nil
	}
	defer c.Close()

	metrics.WebsocketClients.Inc()
	defer metrics.WebsocketClients.Dec()

	// Push the one-time snapshot before acquiring the live feed. A write
	// failure here is a client disconnect.
	if err := h.sendInitialData(c); err != nil {
		return nil
	}

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// sendInitialData writes the current platform snapshot to a freshly
// connected websocket client.
func (h Handlers) sendInitialData(c *websocket.Conn) error {
	blocks, err := h.State.Blocks(defaultPageSize, 0)
	if err != nil {
		return err
	}

	discoveries, err := h.State.Discoveries(defaultPageSize, 0, "")
	if err != nil {
		return err
	}

	snapshot := initialData{
		Blocks:      blocks,
		Discoveries: discoveries,
		Operations:  h.State.Operations(),
		Metrics:     h.State.Metrics(),
	}

	data, err := json.Marshal(events.Event{Type: events.TypeInitialData, Data: snapshot})
	if err != nil {
		return err
	}

	return c.WriteMessage(websocket.TextMessage, data)
}

// Discoveries returns a page of mathematical work records.
func (h Handlers) Discoveries(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	limit, offset, err := pagination(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	var typ work.Type
	if value := r.URL.Query().Get("workType"); value != "" {
		typ, err = work.Parse(value)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	discoveries, err := h.State.Discoveries(limit, offset, typ)
	if err != nil {
		return fmt.Errorf("querying discoveries: %w", err)
	}

	return web.Respond(ctx, w, discoveries, http.StatusOK)
}

// DiscoveryByID returns the specified mathematical work record.
func (h Handlers) DiscoveryByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseUint(web.Param(r, "id"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid discovery id: %w", err), http.StatusBadRequest)
	}

	discovery, err := h.State.DiscoveryByID(id)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("discovery %d not found", id), http.StatusNotFound)
	}

	return web.Respond(ctx, w, discovery, http.StatusOK)
}

// Blocks returns a page of productive blocks.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	limit, offset, err := pagination(r)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	blocks, err := h.State.Blocks(limit, offset)
	if err != nil {
		return fmt.Errorf("querying blocks: %w", err)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByID returns the specified productive block.
func (h Handlers) BlockByID(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "id"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block id: %w", err), http.StatusBadRequest)
	}

	block, err := h.State.BlockByIndex(index)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("block %d not found", index), http.StatusNotFound)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// BlockWork returns the work records aggregated into the specified block.
func (h Handlers) BlockWork(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "id"), 10, 64)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("invalid block id: %w", err), http.StatusBadRequest)
	}

	records, err := h.State.BlockWork(index)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("block %d not found", index), http.StatusNotFound)
	}

	return web.Respond(ctx, w, records, http.StatusOK)
}

// Operations returns the active mining operations.
func (h Handlers) Operations(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Operations(), http.StatusOK)
}

// StartOperation begins a new mining operation.
func (h Handlers) StartOperation(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var req startOperationRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	typ, err := work.Parse(req.OperationType)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	op, err := h.State.StartOperation(typ, req.Difficulty, req.MinerID)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	metrics.OperationsStarted.Inc()
	h.Log.Infow("operation started", "traceid", v.TraceID, "operation", op.ID, "workType", op.OperationType, "difficulty", op.Difficulty, "miner", op.MinerID)

	return web.Respond(ctx, w, op, http.StatusCreated)
}

// CancelOperation cancels an active mining operation.
func (h Handlers) CancelOperation(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := web.Param(r, "id")

	op, err := h.State.CancelOperation(id)
	if err != nil {
		return errs.NewTrusted(err, http.StatusNotFound)
	}

	return web.Respond(ctx, w, op, http.StatusOK)
}

// Metrics returns the latest network metrics snapshot, computing one on
// the spot when the worker hasn't produced any yet.
func (h Handlers) Metrics(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	snapshot := h.State.Metrics()

	if snapshot.ComputedAt.IsZero() {
		var err error
		snapshot, err = h.State.MetricsTick(time.Now())
		if err != nil {
			return fmt.Errorf("computing metrics: %w", err)
		}
	}

	return web.Respond(ctx, w, snapshot, http.StatusOK)
}

// Statistics returns aggregate counts across the platform.
func (h Handlers) Statistics(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats, err := h.State.Statistics()
	if err != nil {
		return fmt.Errorf("querying statistics: %w", err)
	}

	return web.Respond(ctx, w, stats, http.StatusOK)
}

// Validations returns the recorded discovery validations.
func (h Handlers) Validations(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Validations(), http.StatusOK)
}

// Validators returns the validator set with current reputations.
func (h Handlers) Validators(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Validators(), http.StatusOK)
}

// SubmitValidation records a simulated validation of a discovery.
func (h Handlers) SubmitValidation(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req submitValidationRequest
	if err := web.Decode(r, &req); err != nil {
		return err
	}

	validation, err := h.State.SubmitValidation(req.DiscoveryID, req.ValidatorID)
	if err != nil {
		if errors.Is(err, state.ErrValidatorNotFound) || errors.Is(err, state.ErrDiscoveryNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	metrics.Validations.Inc()

	return web.Respond(ctx, w, validation, http.StatusCreated)
}

// Integrity runs the on-demand chain integrity check.
func (h Handlers) Integrity(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	report, err := h.State.CheckIntegrity()
	if err != nil {
		return fmt.Errorf("checking integrity: %w", err)
	}

	return web.Respond(ctx, w, report, http.StatusOK)
}

// Restart clears all platform state. This only exists for development.
func (h Handlers) Restart(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	if err := h.State.Restart(); err != nil {
		return fmt.Errorf("restarting blockchain: %w", err)
	}

	h.Log.Infow("blockchain restarted", "traceid", v.TraceID)

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "blockchain restarted",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// pagination pulls the limit/offset query parameters applying the
// server-side caps.
func pagination(r *http.Request) (limit int, offset int, err error) {
	limit, err = web.QueryInt(r, "limit", defaultPageSize)
	if err != nil {
		return 0, 0, err
	}

	offset, err = web.QueryInt(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}

	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
