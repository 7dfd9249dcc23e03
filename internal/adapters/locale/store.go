package locale

import (
	"context"
	"strings"

	"github.com/SscSPs/currency_resolver/internal/core/domain"
	portssvc "github.com/SscSPs/currency_resolver/internal/core/ports/services"
)

// HostStoreContext resolves the store from the request host.
type HostStoreContext struct {
	Currencies map[string]string
}

var _ portssvc.StoreContext = HostStoreContext{}

// DefaultCurrency returns the currency configured for the host, or "".
func (s HostStoreContext) DefaultCurrency(_ context.Context, req *domain.RequestContext) string {
	if req == nil || len(s.Currencies) == 0 {
		return ""
	}
	return s.Currencies[strings.ToLower(req.Host)]
}
