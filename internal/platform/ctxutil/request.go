package ctxutil

import "context"

// AnonymousOwner is used when a request carries no owner header.
const AnonymousOwner = "anonymous"

type requestDataKey struct{}

type RequestData struct {
	OwnerID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// OwnerID returns the request owner or AnonymousOwner.
func OwnerID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil && rd.OwnerID != "" {
		return rd.OwnerID
	}
	return AnonymousOwner
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
