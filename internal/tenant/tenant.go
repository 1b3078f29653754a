package tenant

import (
	"context"
	"net/http"
	"strings"

	"github.com/miradorstack/workload-simulator/internal/models"
)

// HeaderName carries the tenant label on inbound HTTP requests.
const HeaderName = "X-Tenant-ID"

type contextKey string

const tenantKey contextKey = "tenant"

// WithTenant stores a tenant id on ctx.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

// FromContext returns the tenant id stored on ctx.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tenantKey).(string)
	return id, ok && id != ""
}

// OrDefault returns the tenant on ctx or the default label.
func OrDefault(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id
	}
	return models.DefaultTenantID
}

// Middleware copies the tenant header into the request context. Requests without the
// header pass through untouched; tenants are labels here, not credentials.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(HeaderName)); id != "" {
			r = r.WithContext(WithTenant(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
