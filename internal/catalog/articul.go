package catalog

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	pkgerrors "github.com/aziznur-dev/bozorplace-backend/pkg/errors"
)

const (
	articulDigits      = 8
	articulMaxAttempts = 20
)

type articulChecker interface {
	ArticulExists(ctx context.Context, articul string) (bool, error)
}

// generateArticul produces an unused random 8-digit code. Collisions are
// resolved by retrying; with 10^8 codes the loop terminating within a few
// attempts is the overwhelmingly common case.
func generateArticul(ctx context.Context, repo articulChecker) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < articulDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}

	for attempt := 0; attempt < articulMaxAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate articul")
		}
		candidate := fmt.Sprintf("%0*d", articulDigits, n)

		exists, err := repo.ArticulExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique articul")
}
