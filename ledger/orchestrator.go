package ledger

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"estate-bridge/contract"
	"estate-bridge/domain"
	apperrors "estate-bridge/errors"
	"estate-bridge/observability"
	"estate-bridge/validation"
)

// State is the position of one in-flight action. Failed always carries
// a classified error and transitions back to Idle: submissions are not
// auto-retried, because resubmitting an already-broadcast action could
// double-spend or double-list.
type State string

const (
	StateIdle                 State = "idle"
	StateValidating           State = "validating"
	StatePreflightChecking    State = "preflight_checking"
	StateSubmitting           State = "submitting"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSucceeded            State = "succeeded"
	StateFailed               State = "failed"
)

const (
	FlowList     = "list"
	FlowPurchase = "purchase"
)

// OrchestratorDeps collects the collaborators of one orchestrator.
// Attempts, Metrics and OnRefresh are optional.
type OrchestratorDeps struct {
	Ledger    contract.Ledger
	Store     contract.PropertyStore
	Guard     *validation.Guard
	Preflight *Preflight
	Attempts  contract.AttemptRecorder
	Metrics   *observability.TxMetrics
	// OnRefresh observes each snapshot replacement (search reindexing).
	OnRefresh func([]domain.ListedProperty)
	Log       *slog.Logger
}

// Orchestrator drives one listing or purchase action at a time through
// validate, preflight, submit and confirmation. Once an action reaches
// Submitting it is irrevocable from this system's perspective; only
// pre-submission state can be abandoned freely.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	ledger    contract.Ledger
	store     contract.PropertyStore
	guard     *validation.Guard
	preflight *Preflight
	attempts  contract.AttemptRecorder
	metrics   *observability.TxMetrics
	onRefresh func([]domain.ListedProperty)
	log       *slog.Logger
}

func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	return &Orchestrator{
		state:     StateIdle,
		ledger:    deps.Ledger,
		store:     deps.Store,
		guard:     deps.Guard,
		preflight: deps.Preflight,
		attempts:  deps.Attempts,
		metrics:   deps.Metrics,
		onRefresh: deps.OnRefresh,
		log:       deps.Log,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// begin rejects re-entrant submissions while an action is past the
// point where a second broadcast could conflict with the first.
func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting || o.state == StateAwaitingConfirmation {
		return apperrors.ErrSubmissionInFlight
	}
	o.state = StateValidating
	return nil
}

func (o *Orchestrator) transition(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
	o.log.Debug("orchestrator transition", "state", state)
}

// SubmitListing drives the full list flow: FormGuard over the draft, a
// duplicate-ID read, then the create-listing call with the sanitized
// draft. The returned error, if any, is a *validation.Error, a
// *PreflightError or a *LedgerError; raw failure text never escapes.
func (o *Orchestrator) SubmitListing(ctx context.Context, draft domain.Draft) (domain.TxHandle, error) {
	if err := o.begin(); err != nil {
		return domain.TxHandle{}, err
	}
	o.metrics.SubmissionStarted()

	if result := o.guard.Check(draft); !result.Valid() {
		return domain.TxHandle{}, o.fail(FlowList, "", "", &validation.Error{Fields: result})
	}
	listing, err := draft.Listing()
	if err != nil {
		return domain.TxHandle{}, o.fail(FlowList, "", "", err)
	}

	o.transition(StatePreflightChecking)
	if err := o.preflight.CheckListing(ctx, listing.ID); err != nil {
		return domain.TxHandle{}, o.fail(FlowList, listing.ID, "", err)
	}

	o.transition(StateSubmitting)
	handle, err := o.ledger.CreateProperty(ctx, listing)
	if err != nil {
		return domain.TxHandle{}, o.fail(FlowList, listing.ID, "", err)
	}

	o.transition(StateAwaitingConfirmation)
	if err := o.ledger.AwaitReceipt(ctx, handle); err != nil {
		return domain.TxHandle{}, o.fail(FlowList, listing.ID, "", err)
	}

	o.succeed(ctx, FlowList, listing.ID, "", handle)
	return handle, nil
}

// SubmitPurchase drives the purchase flow: preflight against current
// ledger state, a fresh single-use intent, then the create-purchase
// call carrying the price as the transferred value.
func (o *Orchestrator) SubmitPurchase(ctx context.Context, propertyID domain.PropertyID, buyer domain.Address) (domain.TxHandle, error) {
	if err := o.begin(); err != nil {
		return domain.TxHandle{}, err
	}
	o.metrics.SubmissionStarted()

	// Validating is a no-op for purchases; there is no form.
	o.transition(StatePreflightChecking)
	property, err := o.preflight.Check(ctx, propertyID, buyer)
	if err != nil {
		return domain.TxHandle{}, o.fail(FlowPurchase, propertyID, "", err)
	}

	intent, err := domain.NewPurchaseIntent(property, buyer)
	if err != nil {
		return domain.TxHandle{}, o.fail(FlowPurchase, propertyID, "", err)
	}

	o.transition(StateSubmitting)
	handle, err := o.ledger.CreateContract(ctx, intent.IdempotencyKey, intent.PropertyID, intent.Price)
	if err != nil {
		return domain.TxHandle{}, o.fail(FlowPurchase, propertyID, intent.IdempotencyKey, err)
	}

	o.transition(StateAwaitingConfirmation)
	if err := o.ledger.AwaitReceipt(ctx, handle); err != nil {
		return domain.TxHandle{}, o.fail(FlowPurchase, propertyID, intent.IdempotencyKey, err)
	}

	o.succeed(ctx, FlowPurchase, propertyID, intent.IdempotencyKey, handle)
	return handle, nil
}

// Refresh replaces the cached snapshot wholesale. Incremental updates
// would be cheaper but harder to get right; the whole-snapshot swap is
// a deliberate trade of efficiency for correctness.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	properties, err := o.ledger.GetAllProperties(ctx)
	if err != nil {
		return Classify(err, "refresh properties")
	}
	if err := o.store.Replace(properties); err != nil {
		return err
	}
	if o.onRefresh != nil {
		o.onRefresh(properties)
	}
	return nil
}

// fail classifies the error unless it already belongs to the taxonomy,
// records the attempt, and returns the machine to Idle.
func (o *Orchestrator) fail(flow string, propertyID domain.PropertyID, idempotencyKey string, err error) error {
	classified := err
	if !isTaxonomy(err) {
		classified = Classify(err, flow)
	}

	o.transition(StateFailed)
	var ledgerErr *LedgerError
	if stderrors.As(classified, &ledgerErr) {
		o.log.Error("submission failed",
			"flow", flow,
			"property_id", propertyID,
			"kind", ledgerErr.Kind,
			"raw", ledgerErr.RawMessage,
		)
	} else {
		o.log.Warn("submission rejected", "flow", flow, "property_id", propertyID, "error", classified)
	}

	o.record(domain.Attempt{
		Flow:           flow,
		PropertyID:     propertyID,
		IdempotencyKey: idempotencyKey,
		Outcome:        domain.AttemptFailed,
		Detail:         classified.Error(),
		At:             time.Now().UTC(),
	})
	o.metrics.SubmissionFinished(flow, "failed")
	o.transition(StateIdle)
	return classified
}

func (o *Orchestrator) succeed(ctx context.Context, flow string, propertyID domain.PropertyID, idempotencyKey string, handle domain.TxHandle) {
	o.transition(StateSucceeded)
	o.log.Info("submission confirmed", "flow", flow, "property_id", propertyID, "tx", handle.Hash)

	o.record(domain.Attempt{
		Flow:           flow,
		PropertyID:     propertyID,
		IdempotencyKey: idempotencyKey,
		Outcome:        domain.AttemptSucceeded,
		TxHash:         handle.Hash,
		At:             time.Now().UTC(),
	})
	o.metrics.SubmissionFinished(flow, "succeeded")

	// The action already succeeded; a refresh failure only leaves the
	// cache stale until the next refresh.
	if err := o.Refresh(ctx); err != nil {
		o.log.Warn("post-success refresh failed", "flow", flow, "error", err)
	}
	o.transition(StateIdle)
}

func (o *Orchestrator) record(attempt domain.Attempt) {
	if o.attempts == nil {
		return
	}
	if err := o.attempts.Record(attempt); err != nil {
		o.log.Warn("recording attempt failed", "error", err)
	}
}

func isTaxonomy(err error) bool {
	var (
		validationErr *validation.Error
		preflightErr  *PreflightError
		ledgerErr     *LedgerError
	)
	return stderrors.As(err, &validationErr) ||
		stderrors.As(err, &preflightErr) ||
		stderrors.As(err, &ledgerErr)
}
