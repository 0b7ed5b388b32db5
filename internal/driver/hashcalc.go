package driver

import (
	"crypto/sha256"
	"fmt"

	"llvet/internal/verify"
	"llvet/internal/version"
)

// Digest is a SHA-256 value.
type Digest [32]byte

// combineDigest: H(content || dep1 || dep2 ...). deps уже в детерминированном порядке.
func combineDigest(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsDigest покрывает всё, что меняет набор диагностик при том же тексте.
func optionsDigest(opts *Options) Digest {
	phases := opts.Verify
	if phases == 0 {
		phases = verify.AllPhases
	}
	s := fmt.Sprintf("llvet %s schema=%d phases=%d maxviol=%d maxdiag=%d depth=%d tokens=%d toklen=%d",
		version.Version, diskCacheSchemaVersion, phases, opts.MaxViolations,
		opts.MaxDiagnostics, opts.MaxDepth, opts.MaxTokens, opts.MaxTokenLength)
	return sha256.Sum256([]byte(s))
}

// cacheKey binds a file's content hash to the options it was checked with.
func cacheKey(content [32]byte, opts *Options) Digest {
	return combineDigest(Digest(content), optionsDigest(opts))
}
