package order

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
	"github.com/brokermobile/broker-client/internal/transport"
)

const _ordersPath = "/orders"

var (
	ErrNoInstrument       = errors.New("no selected instrument")
	ErrSubmissionInFlight = errors.New("order submission already in flight")
)

// State of the submission flow: editing until a submission starts, back to
// editing when it fails, done once a result arrives.
type State int

const (
	Editing State = iota
	Submitting
	Done
)

// CatalogReader is the read-only view of the instruments store the flow
// resolves its instrument from. The flow never mutates the catalog.
type CatalogReader interface {
	ByID(id int) (model.Instrument, bool)
}

// Flow owns the draft of one order-entry session from editing through
// submission to an immutable result. At most one submission is in flight
// per session.
type Flow struct {
	api    *transport.Client
	logger logger.Logger

	mu         sync.Mutex
	instrument *model.Instrument
	draft      Draft
	state      State
	result     *model.OrderResult
	submitErr  string
}

// NewFlow opens a session for the instrument with the given id, resolved
// from the already-loaded catalog snapshot. The flow does not fetch; a
// missing id surfaces as ErrNoInstrument at submit time.
func NewFlow(api *transport.Client, catalog CatalogReader, instrumentID int, logger logger.Logger) *Flow {
	f := &Flow{
		api:    api,
		logger: logger,
		draft:  NewDraft(),
	}
	if in, ok := catalog.ByID(instrumentID); ok {
		f.instrument = &in
	}
	return f
}

// Instrument returns the resolved instrument, or false when the catalog
// snapshot had no entry for the requested id.
func (f *Flow) Instrument() (model.Instrument, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.instrument == nil {
		return model.Instrument{}, false
	}
	return *f.instrument, true
}

// Draft returns the current draft value.
func (f *Flow) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Update replaces the draft with apply over its current value. Ignored
// while a submission is in flight.
func (f *Flow) Update(apply func(Draft) Draft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting {
		return
	}
	f.draft = apply(f.draft)
}

// BlurTotalAmount runs the one-shot amount-to-quantity reconciliation
// against the selected instrument's last price.
func (f *Flow) BlurTotalAmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == Submitting || f.instrument == nil {
		return
	}
	f.draft = f.draft.BlurTotalAmount(f.instrument.LastPrice)
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the submission result once the flow is done.
func (f *Flow) Result() (model.OrderResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return model.OrderResult{}, false
	}
	return *f.result, true
}

// SubmitError returns the form-level message left by the last failed
// submission, empty if none.
func (f *Flow) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitErr
}

// Submit validates the draft and posts the order. Single-flight: a second
// Submit while one is outstanding fails immediately with
// ErrSubmissionInFlight. A validation failure never reaches the network.
// A transport failure returns the flow to editing with the error surfaced
// on the form; success moves it to the terminal result state.
func (f *Flow) Submit(ctx context.Context) (model.OrderResult, error) {
	f.mu.Lock()
	if f.state == Submitting {
		f.mu.Unlock()
		return model.OrderResult{}, ErrSubmissionInFlight
	}
	if f.instrument == nil {
		f.mu.Unlock()
		return model.OrderResult{}, ErrNoInstrument
	}

	draft := f.draft
	instrument := *f.instrument

	if errs := Validate(draft); errs != nil {
		f.mu.Unlock()
		return model.OrderResult{}, &ValidationError{Fields: errs}
	}

	req, err := buildRequest(draft, instrument.ID)
	if err != nil {
		f.mu.Unlock()
		return model.OrderResult{}, err
	}

	f.state = Submitting
	f.submitErr = ""
	f.mu.Unlock()

	result, err := transport.Post[model.OrderResult](ctx, f.api, _ordersPath, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.logger.Errorf("%s: can't submit order for %s", err, instrument.Ticker)
		f.state = Editing
		f.submitErr = err.Error()
		return model.OrderResult{}, err
	}

	f.state = Done
	f.result = &result
	return result, nil
}

func buildRequest(d Draft, instrumentID int) (model.OrderRequest, error) {
	quantity, err := strconv.Atoi(d.Quantity)
	if err != nil || quantity <= 0 {
		return model.OrderRequest{}, &ValidationError{
			Fields: FieldErrors{FieldQuantity: "quantity must be a positive integer"},
		}
	}

	req := model.OrderRequest{
		InstrumentID: instrumentID,
		Operation:    d.Operation,
		Type:         d.Type,
		Quantity:     quantity,
	}

	if d.Type == model.Limit {
		price, err := strconv.ParseFloat(d.Price, 64)
		if err != nil {
			return model.OrderRequest{}, &ValidationError{
				Fields: FieldErrors{FieldPrice: "limit price must be a decimal"},
			}
		}
		req.Price = &price
	}

	return req, nil
}
