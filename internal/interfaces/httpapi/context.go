package httpapi

import "context"

type contextKey string

const managerContextKey contextKey = "manager_id"

func withManagerID(ctx context.Context, managerID string) context.Context {
	return context.WithValue(ctx, managerContextKey, managerID)
}

func managerIDFromContext(ctx context.Context) (string, bool) {
	managerID, ok := ctx.Value(managerContextKey).(string)
	return managerID, ok && managerID != ""
}
