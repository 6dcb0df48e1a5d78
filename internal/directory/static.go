package directory

import "context"

type staticResolver struct {
	target string
}

// NewStatic creates a Resolver that sends everything to one target. Used
// when no spreadsheet is configured.
func NewStatic(target string) Resolver {
	return &staticResolver{target: target}
}

func (r *staticResolver) ResolveTarget(ctx context.Context, issueKey string) (string, error) {
	if r.target == "" {
		return "", ErrNoTarget
	}
	return r.target, nil
}

func (r *staticResolver) Register(ctx context.Context, key, target string) error {
	return ErrNotWritable
}
