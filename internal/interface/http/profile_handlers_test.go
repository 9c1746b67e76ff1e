package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfile_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/v1/me/profile", "/api/v1/me/overview", "/api/v1/me/orders", "/api/v1/me/favorites"} {
		rec := env.do(t, request{method: http.MethodGet, path: path})
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestProfile_GetMissing_Returns404(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/me/profile", token: env.token(t, env.customer)})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile_UpdateAndGet(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.customer)

	rec := env.do(t, request{method: http.MethodPut, path: "/api/v1/me/profile", token: token, body: map[string]any{
		"full_name": " Dana Scully ",
		"email":     "Dana@Example.com",
		"phone":     "+15551234567",
		"address":   "12 Baker Street",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, request{method: http.MethodGet, path: "/api/v1/me/profile", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeObject(t, rec)
	require.Equal(t, "Dana Scully", body["full_name"])
	require.Equal(t, "dana@example.com", body["email"])
	require.Equal(t, "+15551234567", body["phone"])
	require.Equal(t, env.customer.ID.String(), body["user_id"])
}

func TestProfile_UpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.customer)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"short name", map[string]any{"full_name": "D", "email": "d@example.com"}, "FullName"},
		{"bad email", map[string]any{"full_name": "Dana", "email": "nope"}, "Email"},
		{"bad phone", map[string]any{"full_name": "Dana", "email": "d@example.com", "phone": "12-34"}, "Phone"},
		{"short phone", map[string]any{"full_name": "Dana", "email": "d@example.com", "phone": "123456789"}, "Phone"},
		{"short address", map[string]any{"full_name": "Dana", "email": "d@example.com", "address": "abc"}, "Address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, request{method: http.MethodPut, path: "/api/v1/me/profile", token: token, body: tt.body})
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, decodeObject(t, rec)["error"], "Field validation for '"+tt.field+"'")
		})
	}
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, env.customer)

	rec := env.do(t, request{method: http.MethodGet, path: "/api/v1/me/overview", token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeObject(t, rec)
	require.Nil(t, body["profile"])
	require.EqualValues(t, 0, body["total_spent"])

	for _, id := range []int{1, 2} {
		rec = env.do(t, request{method: http.MethodPost, path: "/api/v1/cart/items", body: map[string]any{"menu_item_id": id}})
		session := sessionFrom(t, rec)
		rec = env.do(t, request{method: http.MethodPost, path: "/api/v1/cart/checkout", token: token, session: session})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	env.do(t, request{method: http.MethodPut, path: "/api/v1/me/favorites/3", token: token})

	rec = env.do(t, request{method: http.MethodGet, path: "/api/v1/me/overview", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeObject(t, rec)
	require.EqualValues(t, 2, body["total_orders"])
	require.EqualValues(t, 329+49+279+49, body["total_spent"])
	require.Len(t, body["favorites"], 1)
}
