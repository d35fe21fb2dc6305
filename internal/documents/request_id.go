package documents

import "context"

type requestIDKey struct{}

// WithRequestID tags the context with the ingest request ID so pipeline
// logs can be correlated with the originating upload.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx != nil && requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey{}, requestID)
	}
	return ctx
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
