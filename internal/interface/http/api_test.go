package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domfavorite "example.com/food-storefront/internal/domain/favorite"
	dommenu "example.com/food-storefront/internal/domain/menu"
	domorder "example.com/food-storefront/internal/domain/order"
	domprofile "example.com/food-storefront/internal/domain/profile"
	domuser "example.com/food-storefront/internal/domain/user"
	"example.com/food-storefront/internal/infra/catalog"
	"example.com/food-storefront/internal/infra/metrics"
	"example.com/food-storefront/internal/infra/security"
	authuc "example.com/food-storefront/internal/usecase/auth"
	cartuc "example.com/food-storefront/internal/usecase/cart"
	checkoutuc "example.com/food-storefront/internal/usecase/checkout"
	favoriteuc "example.com/food-storefront/internal/usecase/favorite"
	menuuc "example.com/food-storefront/internal/usecase/menu"
	orderuc "example.com/food-storefront/internal/usecase/order"
	profileuc "example.com/food-storefront/internal/usecase/profile"
)

// --- in-memory repositories ---

type memOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*domorder.Order
	insertErr error
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uuid.UUID]*domorder.Order)}
}

func (m *memOrderRepo) Insert(_ context.Context, o *domorder.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domorder.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domorder.Status) (*domorder.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	if o.Status != from {
		return nil, domorder.ErrStatusConflict
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memProfileRepo struct {
	profiles map[uuid.UUID]*domprofile.Profile
}

func (m *memProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domprofile.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domprofile.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileRepo) Upsert(_ context.Context, p *domprofile.Profile) (*domprofile.Profile, error) {
	cp := *p
	m.profiles[p.UserID] = &cp
	return p, nil
}

type memFavoriteRepo struct {
	items map[uuid.UUID][]int64
}

func (m *memFavoriteRepo) List(_ context.Context, userID uuid.UUID) ([]*domfavorite.Favorite, error) {
	var out []*domfavorite.Favorite
	for _, id := range m.items[userID] {
		out = append(out, &domfavorite.Favorite{UserID: userID, MenuItemID: id})
	}
	return out, nil
}

func (m *memFavoriteRepo) Add(_ context.Context, userID uuid.UUID, menuItemID int64) error {
	for _, id := range m.items[userID] {
		if id == menuItemID {
			return nil
		}
	}
	m.items[userID] = append(m.items[userID], menuItemID)
	return nil
}

func (m *memFavoriteRepo) Remove(_ context.Context, userID uuid.UUID, menuItemID int64) error {
	ids := m.items[userID][:0]
	for _, id := range m.items[userID] {
		if id != menuItemID {
			ids = append(ids, id)
		}
	}
	m.items[userID] = ids
	return nil
}

type memUserRepo struct {
	users map[string]*domuser.User
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domuser.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) Create(_ context.Context, u *domuser.User) (*domuser.User, error) {
	if _, ok := m.users[u.Email]; ok {
		return nil, domuser.ErrEmailAlreadyUsed
	}
	m.users[u.Email] = u
	return u, nil
}

// --- harness ---

type testEnv struct {
	router   chi.Router
	tokens   *security.JWTService
	orders   *memOrderRepo
	profiles *memProfileRepo
	metrics  *metrics.Metrics
	customer *domuser.User
	staff    *domuser.User
}

func testMenu() []*dommenu.Item {
	return []*dommenu.Item{
		{ID: 1, Name: "Gourmet Burger Deluxe", Description: "Premium beef patty", Price: decimal.NewFromInt(329), Category: "Burgers"},
		{ID: 2, Name: "Mediterranean Salad Bowl", Description: "Fresh greens, feta", Price: decimal.NewFromInt(279), Category: "Healthy", IsHealthy: true},
		{ID: 3, Name: "Pepperoni Pizza", Description: "Classic Italian", Price: decimal.NewFromInt(449), Category: "Pizza"},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	menuSvc := menuuc.NewService(catalog.NewMemoryRepository(testMenu()))
	orders := newMemOrderRepo()
	profiles := &memProfileRepo{profiles: make(map[uuid.UUID]*domprofile.Profile)}
	favorites := &memFavoriteRepo{items: make(map[uuid.UUID][]int64)}
	users := &memUserRepo{users: make(map[string]*domuser.User)}

	tokens := security.NewJWTService("test-secret-0123456789", time.Hour)
	hasher := security.NewPasswordService(4)
	profileSvc := profileuc.NewService(profiles, orders, favorites)
	m := metrics.New()

	api := NewAPI(Dependencies{
		AuthService: authuc.NewService(users, hasher, tokens),
		MenuService: menuSvc,
		CartService: cartuc.NewService(menuSvc, nil, domorder.DefaultDeliveryFee, logger),
		CheckoutService: checkoutuc.NewService(checkoutuc.Dependencies{
			Identity:    authuc.ContextIdentity{},
			Addresses:   profileSvc,
			Orders:      orders,
			Observer:    m,
			DeliveryFee: domorder.DefaultDeliveryFee,
			Logger:      logger,
		}),
		ProfileService:  profileSvc,
		OrderService:    orderuc.NewService(orders),
		FavoriteService: favoriteuc.NewService(favorites, menuSvc),
		TokenService:    tokens,
		Metrics:         m,
		Logger:          logger,
	})

	return &testEnv{
		router:   api.Router(),
		tokens:   tokens,
		orders:   orders,
		profiles: profiles,
		metrics:  m,
		customer: &domuser.User{ID: uuid.New(), Email: "dana@example.com", FullName: "Dana", Role: domuser.RoleCustomer},
		staff:    &domuser.User{ID: uuid.New(), Email: "chef@example.com", FullName: "Chef", Role: domuser.RoleStaff},
	}
}

func (e *testEnv) token(t *testing.T, u *domuser.User) string {
	t.Helper()
	tok, err := e.tokens.GenerateToken(u)
	require.NoError(t, err)
	return tok
}

type request struct {
	method  string
	path    string
	token   string
	body    any
	session *http.Cookie
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		require.NoError(t, err)
		r = httptest.NewRequest(req.method, req.path, bytes.NewReader(payload))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.session != nil {
		r.AddCookie(req.session)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookie)
	return nil
}

func decodeObject(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// --- generic behaviour ---

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeObject(t, rec)["status"])
}

func TestInvalidBearerToken_Returns401(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/menu", token: "not-a-token"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, errUnauthenticated.Error(), decodeObject(t, rec)["error"])
}

func TestHandleDomainError_Mapping(t *testing.T) {
	api := NewAPI(Dependencies{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{dommenu.ErrItemNotFound, http.StatusNotFound, dommenu.ErrItemNotFound.Error()},
		{domorder.ErrAuthRequired, http.StatusUnauthorized, "sign in required"},
		{domorder.ErrEmptyCart, http.StatusUnprocessableEntity, domorder.ErrEmptyCart.Error()},
		{domorder.ErrInvalidTransition, http.StatusUnprocessableEntity, domorder.ErrInvalidTransition.Error()},
		{domuser.ErrEmailAlreadyUsed, http.StatusConflict, domuser.ErrEmailAlreadyUsed.Error()},
		{domorder.ErrStatusConflict, http.StatusConflict, domorder.ErrStatusConflict.Error()},
		{errors.Join(domorder.ErrCheckoutFailed, errors.New("db: connection refused")), http.StatusBadGateway, domorder.ErrCheckoutFailed.Error()},
		{errors.New("boom"), http.StatusInternalServerError, errInternal.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			api.handleDomainError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			require.Equal(t, tt.status, rec.Code)
			require.Equal(t, tt.body, decodeObject(t, rec)["error"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, request{method: http.MethodGet, path: "/api/v1/menu"})

	rec := env.do(t, request{method: http.MethodGet, path: "/metrics"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `storefront_http_requests_total{handler="GET /api/v1/menu",status="200"} 1`)
}

func TestNewValidator_PhoneRule(t *testing.T) {
	v := newValidator()

	require.NoError(t, v.Var("+919876543210", "phone"))
	require.Error(t, v.Var("12-34", "phone"))
}
