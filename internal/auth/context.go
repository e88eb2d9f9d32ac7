package auth

import (
	"context"

	"github.com/jansssss/jbfPL/internal/principal"
)

type ctxKey string

const contextPrincipalKey ctxKey = "principal"

func ContextWithPrincipal(ctx context.Context, p *principal.Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, p)
}

func PrincipalFromContext(ctx context.Context) (*principal.Principal, bool) {
	p, ok := ctx.Value(contextPrincipalKey).(*principal.Principal)
	return p, ok
}
