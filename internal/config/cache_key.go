package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// SessionKey returns the fixed key under which the single attestation
// session is persisted. The version suffix allows an incompatible
// session layout to start fresh instead of choking on old state.
func (r *CacheKeyStruct) SessionKey() string {
	return "attest:session:v3"
}

var CacheKey = NewCacheKeyStruct()
