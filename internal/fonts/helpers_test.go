package fonts

import (
	"testing"

	"github.com/ryanlewis/blitstr/internal/m3hash"
)

func clusterKey(t *testing.T, s string, seed uint32) uint32 {
	t.Helper()
	k, _ := m3hash.Cluster(s, seed, 1)
	return k
}
