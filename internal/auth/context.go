package auth

import "context"

type contextKey struct{}

// Identity is the resolved caller: who is making the request and which
// family their data operations are scoped to. FamilyID is 0 for a user
// that has not been associated with a family.
type Identity struct {
	UserID   int64
	FamilyID int64
}

// InFamily reports whether the identity carries a family association.
func (id Identity) InFamily() bool {
	return id.FamilyID != 0
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

func UserID(ctx context.Context) int64 {
	id, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return id.UserID
}

func FamilyID(ctx context.Context) int64 {
	id, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return id.FamilyID
}
