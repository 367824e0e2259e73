package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalog-admin/internal/domain"

	"go.uber.org/zap"
)

// ErrSuperseded is returned by an intent whose result was discarded because a
// newer intent of the same kind started before it completed.
var ErrSuperseded = errors.New("superseded by a newer request")

// Client is the catalog backend as seen by the Coordinator
type Client interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Intent is a kind of request the Coordinator sends to the backend
type Intent int

const (
	IntentFetchAll Intent = iota
	IntentCreate
	IntentUpdate
	IntentDelete
	intentCount
)

func (i Intent) String() string {
	switch i {
	case IntentFetchAll:
		return "FETCH_ALL"
	case IntentCreate:
		return "CREATE"
	case IntentUpdate:
		return "UPDATE"
	case IntentDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// fallbackMessage is recorded when a failed request carries no message
func (i Intent) fallbackMessage() string {
	switch i {
	case IntentFetchAll:
		return "failed to load products"
	case IntentCreate:
		return "failed to create product"
	case IntentUpdate:
		return "failed to update product"
	default:
		return "failed to delete product"
	}
}

// Options configures a Coordinator
type Options struct {
	PageSize       int
	SearchDebounce time.Duration
}

// Coordinator owns the product table state. Intents run the request against
// the backend and fold the outcome into the state; only the most recent
// intent of each kind may commit its result.
type Coordinator struct {
	client Client
	logger *zap.Logger
	search *Debouncer

	mu          sync.Mutex
	state       State
	generations [intentCount]uint64
	cancels     [intentCount]context.CancelFunc
	// latest identifies the most recently started intent of any kind; only
	// its completion clears the loading flag.
	latest uint64
}

// ticket identifies one started intent
type ticket struct {
	intent     Intent
	generation uint64
	seq        uint64
	cancel     context.CancelFunc
}

// NewCoordinator creates a Coordinator with an empty state
func NewCoordinator(client Client, logger *zap.Logger, opts Options) *Coordinator {
	return &Coordinator{
		client: client,
		logger: logger,
		search: NewDebouncer(opts.SearchDebounce),
		state:  NewState(opts.PageSize),
	}
}

// Snapshot returns a copy of the current state
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// View returns the visible page of products
func (c *Coordinator) View() []domain.Product {
	return c.Snapshot().View()
}

// FetchAll replaces the collection with the backend's product list
func (c *Coordinator) FetchAll(ctx context.Context) error {
	ctx, t := c.begin(ctx, IntentFetchAll)

	products, err := c.client.ListProducts(ctx)
	if err != nil {
		return c.fail(t, err)
	}

	return c.succeed(t, SetProducts{Products: products}, SetError{})
}

// Create stores a new product and appends it to the table
func (c *Coordinator) Create(ctx context.Context, input domain.ProductInput) (domain.Product, error) {
	ctx, t := c.begin(ctx, IntentCreate)

	product, err := c.client.CreateProduct(ctx, input)
	if err != nil {
		return domain.Product{}, c.fail(t, err)
	}

	if err := c.succeed(t, AddProduct{Product: product}); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Update merges input onto product id
func (c *Coordinator) Update(ctx context.Context, id string, input domain.ProductInput) (domain.Product, error) {
	ctx, t := c.begin(ctx, IntentUpdate)

	product, err := c.client.UpdateProduct(ctx, id, input)
	if err != nil {
		return domain.Product{}, c.fail(t, err)
	}

	if err := c.succeed(t, UpdateProduct{Product: product}); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Delete removes product id
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	ctx, t := c.begin(ctx, IntentDelete)

	if err := c.client.DeleteProduct(ctx, id); err != nil {
		return c.fail(t, err)
	}

	return c.succeed(t, DeleteProduct{ID: id})
}

// SetFilters merges patch into the filters and returns to the first page
func (c *Coordinator) SetFilters(patch domain.FilterPatch) {
	c.dispatch(SetFilters{Patch: patch})
}

// ClearFilters resets every filter to its neutral value. A search still
// waiting in the debouncer is dropped.
func (c *Coordinator) ClearFilters() {
	c.search.Cancel()
	c.dispatch(ClearFilters{})
}

// Search sets the search filter once typing has paused
func (c *Coordinator) Search(value string) {
	c.search.Trigger(func() {
		c.SetFilters(domain.FilterPatch{Search: &value})
	})
}

// FlushSearch applies a waiting search immediately. It reports whether there
// was one.
func (c *Coordinator) FlushSearch() bool {
	return c.search.Flush()
}

// SetPagination moves to page and changes the page size. Zero values keep
// the current setting.
func (c *Coordinator) SetPagination(page, pageSize int) {
	c.dispatch(SetPagination{Page: page, PageSize: pageSize})
}

// SetSort orders the visible products
func (c *Coordinator) SetSort(field domain.SortField, order domain.SortOrder) {
	c.dispatch(SetSort{Field: field, Order: order})
}

// Close drops any waiting search and cancels requests in flight
func (c *Coordinator) Close() {
	c.search.Close()

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cancel := range c.cancels {
		if cancel != nil {
			cancel()
			c.cancels[i] = nil
		}
	}
}

func (c *Coordinator) dispatch(actions ...Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range actions {
		c.state = Reduce(c.state, a)
	}
}

// begin supersedes any pending intent of the same kind and enters the
// loading phase
func (c *Coordinator) begin(ctx context.Context, intent Intent) (context.Context, ticket) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if prior := c.cancels[intent]; prior != nil {
		prior()
		c.logger.Debug("Superseding pending intent", zap.Stringer("intent", intent))
	}

	c.generations[intent]++
	c.latest++
	c.cancels[intent] = cancel

	c.state = Reduce(c.state, SetError{})
	c.state = Reduce(c.state, SetLoading{Loading: true})

	c.logger.Debug("Intent started",
		zap.Stringer("intent", intent),
		zap.Uint64("generation", c.generations[intent]),
	)

	return ctx, ticket{
		intent:     intent,
		generation: c.generations[intent],
		seq:        c.latest,
		cancel:     cancel,
	}
}

func (c *Coordinator) succeed(t ticket, actions ...Action) error {
	return c.complete(t, nil, actions...)
}

func (c *Coordinator) fail(t ticket, err error) error {
	message := err.Error()
	if message == "" {
		message = t.intent.fallbackMessage()
	}
	return c.complete(t, err, SetError{Message: message})
}

func (c *Coordinator) complete(t ticket, err error, actions ...Action) error {
	t.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[t.intent] != t.generation {
		c.logger.Debug("Discarding stale completion",
			zap.Stringer("intent", t.intent),
			zap.Uint64("generation", t.generation),
			zap.Error(err),
		)
		return ErrSuperseded
	}
	c.cancels[t.intent] = nil

	for _, a := range actions {
		c.state = Reduce(c.state, a)
	}
	if t.seq == c.latest {
		c.state = Reduce(c.state, SetLoading{Loading: false})
	}

	if err != nil {
		c.logger.Warn("Intent failed",
			zap.Stringer("intent", t.intent),
			zap.String("message", c.state.Error),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("Intent completed",
		zap.Stringer("intent", t.intent),
		zap.Int("total", c.state.Pagination.Total),
	)
	return nil
}
