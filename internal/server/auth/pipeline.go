package auth

import "context"

// Step is one stage in front of a protected operation. It either returns the
// context to continue with or a rejection that ends the request.
type Step func(ctx context.Context, authorization string) (context.Context, error)

// Chain runs steps in order and stops at the first rejection.
func Chain(steps ...Step) Step {
	return func(ctx context.Context, authorization string) (context.Context, error) {
		var err error
		for _, step := range steps {
			ctx, err = step(ctx, authorization)
			if err != nil {
				return ctx, err
			}
		}
		return ctx, nil
	}
}
