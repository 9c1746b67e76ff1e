package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	domcart "example.com/food-storefront/internal/domain/cart"
	domfavorite "example.com/food-storefront/internal/domain/favorite"
	dommenu "example.com/food-storefront/internal/domain/menu"
	domorder "example.com/food-storefront/internal/domain/order"
	domprofile "example.com/food-storefront/internal/domain/profile"
	domuser "example.com/food-storefront/internal/domain/user"
	"example.com/food-storefront/internal/infra/metrics"
	authuc "example.com/food-storefront/internal/usecase/auth"
	cartuc "example.com/food-storefront/internal/usecase/cart"
	checkoutuc "example.com/food-storefront/internal/usecase/checkout"
	favoriteuc "example.com/food-storefront/internal/usecase/favorite"
	menuuc "example.com/food-storefront/internal/usecase/menu"
	orderuc "example.com/food-storefront/internal/usecase/order"
	profileuc "example.com/food-storefront/internal/usecase/profile"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

type API struct {
	authSvc     *authuc.Service
	menuSvc     *menuuc.Service
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	profileSvc  *profileuc.Service
	orderSvc    *orderuc.Service
	favoriteSvc *favoriteuc.Service
	tokenSvc    authuc.TokenService
	metrics     *metrics.Metrics
	logger      *slog.Logger
	validator   *validator.Validate
	// secure cookies are only sent over TLS
	secureCookies bool
}

type Dependencies struct {
	AuthService     *authuc.Service
	MenuService     *menuuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	ProfileService  *profileuc.Service
	OrderService    *orderuc.Service
	FavoriteService *favoriteuc.Service
	TokenService    authuc.TokenService
	Metrics         *metrics.Metrics
	Logger          *slog.Logger
	SecureCookies   bool
}

func newValidator() *validator.Validate {
	validate := validator.New()
	if err := validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register phone validation: %v", err))
	}
	return validate
}

func NewAPI(deps Dependencies) *API {
	validate := newValidator()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		authSvc:       deps.AuthService,
		menuSvc:       deps.MenuService,
		cartSvc:       deps.CartService,
		checkoutSvc:   deps.CheckoutService,
		profileSvc:    deps.ProfileService,
		orderSvc:      deps.OrderService,
		favoriteSvc:   deps.FavoriteService,
		tokenSvc:      deps.TokenService,
		metrics:       deps.Metrics,
		logger:        logger,
		validator:     validate,
		secureCookies: deps.SecureCookies,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
		r.Handle("/metrics", a.metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json", "text/plain"))
		r.Use(a.identityMiddleware)

		r.Post("/auth/login", a.handleLogin)
		r.Post("/auth/register", a.handleRegister)

		r.Get("/menu", a.handleListMenu)
		r.Get("/menu/categories", a.handleListCategories)
		r.Get("/menu/{id}", a.handleGetMenuItem)

		r.Route("/cart", func(cr chi.Router) {
			cr.Use(a.sessionMiddleware)
			cr.Get("/", a.handleViewCart)
			cr.Delete("/", a.handleClearCart)
			cr.Post("/items", a.handleAddCartItem)
			cr.Patch("/items/{id}", a.handleUpdateCartItem)
			cr.Delete("/items/{id}", a.handleRemoveCartItem)
			cr.Post("/checkout", a.handleCheckout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(a.requireAuth)
			pr.Get("/me/profile", a.handleGetProfile)
			pr.Put("/me/profile", a.handleUpdateProfile)
			pr.Get("/me/overview", a.handleOverview)
			pr.Get("/me/orders", a.handleListOrders)
			pr.Get("/me/orders/latest", a.handleLatestOrder)
			pr.Get("/me/orders/{id}", a.handleGetOrder)
			pr.Get("/me/favorites", a.handleListFavorites)
			pr.Put("/me/favorites/{id}", a.handleAddFavorite)
			pr.Delete("/me/favorites/{id}", a.handleRemoveFavorite)
		})

		r.Group(func(sr chi.Router) {
			sr.Use(a.requireAuth)
			sr.Use(a.requireRoles(domuser.RoleStaff))
			sr.Patch("/staff/orders/{id}", a.handleAdvanceOrderStatus)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, key))
}

func mapMenuItem(it *dommenu.Item) map[string]any {
	return map[string]any{
		"id":          it.ID,
		"name":        it.Name,
		"description": it.Description,
		"price":       it.Price.InexactFloat64(),
		"rating":      it.Rating,
		"image":       it.Image,
		"category":    it.Category,
		"is_healthy":  it.IsHealthy,
		"calories":    it.Calories,
	}
}

func mapLines(lines []domcart.LineItem) []map[string]any {
	items := make([]map[string]any, 0, len(lines))
	for _, it := range lines {
		items = append(items, map[string]any{
			"id":         it.ID,
			"name":       it.Name,
			"price":      it.Price.InexactFloat64(),
			"image":      it.Image,
			"quantity":   it.Quantity,
			"line_total": it.Total().InexactFloat64(),
		})
	}
	return items
}

func mapSummary(s *cartuc.Summary) map[string]any {
	return map[string]any{
		"items":        mapLines(s.Items),
		"total_items":  s.TotalItems,
		"subtotal":     s.Subtotal.InexactFloat64(),
		"delivery_fee": s.DeliveryFee.InexactFloat64(),
		"total":        s.Total.InexactFloat64(),
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	return map[string]any{
		"id":               o.ID,
		"short_id":         o.ShortID(),
		"user_id":          o.UserID,
		"items":            mapLines(o.Items),
		"item_count":       o.ItemCount(),
		"subtotal":         o.Subtotal.InexactFloat64(),
		"delivery_fee":     o.DeliveryFee.InexactFloat64(),
		"total_amount":     o.TotalAmount.InexactFloat64(),
		"delivery_address": o.DeliveryAddress,
		"status":           o.Status,
		"created_at":       o.CreatedAt,
	}
}

func mapTracking(o *domorder.Order) map[string]any {
	steps := domorder.Progress(o)
	progress := make([]map[string]any, 0, len(steps))
	for _, st := range steps {
		progress = append(progress, map[string]any{
			"label":     st.Label,
			"completed": st.Completed,
			"at":        st.At,
		})
	}
	out := mapOrder(o)
	out["progress"] = progress
	return out
}

func mapProfile(p *domprofile.Profile) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"user_id":    p.UserID,
		"full_name":  p.FullName,
		"email":      p.Email,
		"phone":      p.Phone,
		"address":    p.Address,
		"updated_at": p.UpdatedAt,
	}
}

func mapFavorite(f *domfavorite.Favorite) map[string]any {
	return map[string]any{
		"menu_item_id": f.MenuItemID,
		"created_at":   f.CreatedAt,
	}
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"email":     u.Email,
		"full_name": u.FullName,
		"role":      u.Role,
	}
}

func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, dommenu.ErrItemNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domprofile.ErrProfileNotFound),
		errors.Is(err, domuser.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domorder.ErrAuthRequired),
		errors.Is(err, domuser.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domuser.ErrEmailAlreadyUsed),
		errors.Is(err, domorder.ErrStatusConflict):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domorder.ErrEmptyCart),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domorder.ErrInvalidTransition),
		errors.Is(err, domuser.ErrInvalidCredential),
		errors.Is(err, domuser.ErrInvalidRole):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domorder.ErrCheckoutFailed):
		a.logger.ErrorContext(r.Context(), "checkout failed", "request_id", chimw.GetReqID(r.Context()), "error", err)
		respondError(w, http.StatusBadGateway, domorder.ErrCheckoutFailed)
	default:
		a.logger.ErrorContext(r.Context(), "request failed", "request_id", chimw.GetReqID(r.Context()), "error", err)
		respondError(w, http.StatusInternalServerError, errInternal)
	}
}
