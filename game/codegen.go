package game

import (
	crand "crypto/rand"
	"math/big"
	"sync"
)

// codeAlphabet drops the lookalike characters (0/O, 1/I/L) so codes
// survive being read out loud.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

// CodeGenerator issues room codes that are unique among rooms this
// process created and has not yet disposed. Uniqueness across restarts
// is enforced by the rooms primary key; the caller retries on a
// constraint violation.
type CodeGenerator struct {
	mu    sync.Mutex
	inUse map[string]struct{}
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{inUse: make(map[string]struct{})}
}

func (g *CodeGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		code := randomCode()
		if _, taken := g.inUse[code]; taken {
			continue
		}
		g.inUse[code] = struct{}{}
		return code
	}
}

func (g *CodeGenerator) Dispose(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inUse, code)
}

func randomCode() string {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := crand.Int(crand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken, at which point nothing else works either.
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}
