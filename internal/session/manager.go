package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/wichananm65/craft-catalog/internal/catalog"
	"go.uber.org/zap"
)

// AuthState is what the manager believes about the session cookie.
type AuthState int

const (
	Unknown AuthState = iota
	Authenticated
	Unauthenticated
)

func (s AuthState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

const (
	StatusLoginPrompt     = "Please log in to manage products."
	StatusReLogin         = "Your session has expired. Please log in again."
	StatusLoadFailed      = "Could not load products. Please try again."
	StatusWrongPassword   = "Wrong password."
	StatusTooManyAttempts = "Too many login attempts. Please wait and try again."
	StatusLoginFailed     = "Could not reach the server. Please try again."
	StatusLoggedOut       = "Logged out."
	StatusCreated         = "Product added."
	StatusUpdated         = "Product updated."
	StatusDeleted         = "Product deleted."
	StatusSaveFailed      = "Could not save product."
	StatusDeleteFailed    = "Could not delete product."
)

var ErrUnauthorized = errors.New("not logged in")

// Config is fixed at construction.
type Config struct {
	// BaseURL is the store origin, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient is optional. A cookie jar is attached when it has none.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Snapshot is a copy of the manager's state at one instant.
type Snapshot struct {
	State    AuthState
	Products []catalog.Product
	Status   string
	Loading  bool
}

// Manager mediates every remote call that can change what an admin sees.
//
// Local products only ever change through a successful fetch: writes never
// patch the list, they trigger a re-fetch. Concurrent calls are not queued;
// the last fetch to complete wins.
type Manager struct {
	client *client
	log    *zap.Logger

	mu       sync.Mutex
	state    AuthState
	products []catalog.Product
	status   string
	inflight int
}

func NewManager(cfg Config) (*Manager, error) {
	c, err := newClient(cfg.BaseURL, cfg.HTTPClient)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{client: c, log: log}, nil
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := make([]catalog.Product, len(m.products))
	for i, p := range m.products {
		products[i] = p.Clone()
	}
	return Snapshot{
		State:    m.state,
		Products: products,
		Status:   m.status,
		Loading:  m.inflight > 0,
	}
}

func (m *Manager) begin() func() {
	m.mu.Lock()
	m.inflight++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.inflight--
		m.mu.Unlock()
	}
}

func (m *Manager) setStatus(status string) {
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Manager) unauthenticated(status string, clear bool) {
	m.mu.Lock()
	m.state = Unauthenticated
	if clear {
		m.products = nil
	}
	m.status = status
	m.mu.Unlock()
}

// FetchProducts replaces the local list with the store's on 200. A 401
// logs the manager out; anything else leaves state and products alone.
func (m *Manager) FetchProducts(ctx context.Context) error {
	_, err := m.fetch(ctx)
	return err
}

func (m *Manager) fetch(ctx context.Context) (int, error) {
	defer m.begin()()

	res, err := m.client.do(ctx, http.MethodGet, "/api/products", "", nil)
	if err != nil {
		m.log.Warn("fetch products", zap.Error(err))
		m.setStatus(StatusLoadFailed)
		return 0, err
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		drain(res)
		m.unauthenticated(StatusLoginPrompt, true)
		return 0, ErrUnauthorized
	case res.StatusCode != http.StatusOK:
		serr := &StatusError{Code: res.StatusCode, Detail: errorDetail(res)}
		m.log.Warn("fetch products", zap.Int("status", res.StatusCode), zap.String("detail", serr.Detail))
		m.setStatus(StatusLoadFailed)
		return 0, serr
	}

	var products []catalog.Product
	err = json.NewDecoder(res.Body).Decode(&products)
	drain(res)
	if err != nil {
		m.log.Warn("decode products", zap.Error(err))
		m.setStatus(StatusLoadFailed)
		return 0, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}

	m.mu.Lock()
	m.state = Authenticated
	m.products = products
	m.status = loadedStatus(len(products))
	m.mu.Unlock()
	return len(products), nil
}

func loadedStatus(n int) string {
	if n == 1 {
		return "1 product loaded"
	}
	return fmt.Sprintf("%d products loaded", n)
}

// Login sends password once and, on success, fetches exactly once. Loading
// stays true until the fetch is done.
func (m *Manager) Login(ctx context.Context, password string) error {
	defer m.begin()()

	res, err := m.client.postJSON(ctx, "/api/admin/login", map[string]string{"password": password})
	if err != nil {
		m.log.Warn("login request", zap.Error(err))
		m.setStatus(StatusLoginFailed)
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		serr := &StatusError{Code: res.StatusCode, Detail: errorDetail(res)}
		status := StatusWrongPassword
		if res.StatusCode == http.StatusTooManyRequests {
			status = StatusTooManyAttempts
		}
		m.unauthenticated(status, false)
		return serr
	}
	drain(res)

	m.mu.Lock()
	m.state = Authenticated
	m.mu.Unlock()
	return m.FetchProducts(ctx)
}

// Logout always ends Unauthenticated with no products, whatever the store
// says.
func (m *Manager) Logout(ctx context.Context) error {
	defer m.begin()()

	res, err := m.client.do(ctx, http.MethodPost, "/api/admin/logout", "", nil)
	switch {
	case err != nil:
		m.log.Warn("logout request failed", zap.Error(err))
	case res.StatusCode < 200 || res.StatusCode > 299:
		m.log.Warn("logout rejected", zap.Int("status", res.StatusCode))
		drain(res)
	default:
		drain(res)
	}
	m.unauthenticated(StatusLoggedOut, true)
	return err
}

func (m *Manager) CreateProduct(ctx context.Context, in ProductInput) error {
	return m.write(ctx, StatusCreated, StatusSaveFailed, func() (*http.Response, error) {
		return m.client.sendProduct(ctx, http.MethodPost, "/api/admin/products", in)
	})
}

func (m *Manager) UpdateProduct(ctx context.Context, id catalog.ProductID, in ProductInput) error {
	return m.write(ctx, StatusUpdated, StatusSaveFailed, func() (*http.Response, error) {
		return m.client.sendProduct(ctx, http.MethodPut, productPath(id), in)
	})
}

func (m *Manager) DeleteProduct(ctx context.Context, id catalog.ProductID) error {
	return m.write(ctx, StatusDeleted, StatusDeleteFailed, func() (*http.Response, error) {
		return m.client.do(ctx, http.MethodDelete, productPath(id), "", nil)
	})
}

func productPath(id catalog.ProductID) string {
	return "/api/admin/products/" + url.PathEscape(id.String())
}

// write runs one mutating call. Local products are never touched here; a
// success is followed by an authoritative re-fetch.
func (m *Manager) write(ctx context.Context, okStatus, failStatus string, call func() (*http.Response, error)) error {
	defer m.begin()()

	res, err := call()
	if err != nil {
		m.log.Warn("product write", zap.Error(err))
		m.setStatus(failStatus)
		return err
	}

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		drain(res)
		m.unauthenticated(StatusReLogin, false)
		return ErrUnauthorized
	case res.StatusCode < 200 || res.StatusCode > 299:
		serr := &StatusError{Code: res.StatusCode, Detail: errorDetail(res)}
		status := failStatus
		if serr.Detail != "" {
			status += " " + serr.Detail
		}
		m.setStatus(status)
		return serr
	}
	drain(res)

	m.setStatus(okStatus)
	n, err := m.fetch(ctx)
	if err != nil {
		return err
	}
	m.setStatus(okStatus + " " + loadedStatus(n))
	return nil
}
