package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxUserID   ctxKey = "usuarioID"
	CtxTenantID ctxKey = "tenantID"
	CtxRole     ctxKey = "role"
)

// UsuarioDoContexto extrai (userID, tenantID) injetados pelo middleware.
func UsuarioDoContexto(ctx context.Context) (userID, tenantID uint, ok bool) {
	userID, ok1 := ctx.Value(CtxUserID).(uint)
	tenantID, ok2 := ctx.Value(CtxTenantID).(uint)
	return userID, tenantID, ok1 && ok2
}

func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxTenantID, claims.TenantID)
		ctx = context.WithValue(ctx, CtxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireGestor libera apenas ADMIN e MANAGER.
func RequireGestor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(CtxRole).(string)
		if role != RoleAdmin && role != RoleManager {
			http.Error(w, "Acesso negado: sem permissão", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin libera apenas ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(CtxRole).(string)
		if role != RoleAdmin {
			http.Error(w, "Acesso negado: requer ADMIN", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
