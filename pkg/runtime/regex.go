package runtime

import (
	"regexp"
	"sync"

	"github.com/golang/groupcache/lru"
)

const regexCacheSize = 256

var (
	regexMu    sync.Mutex
	regexCache = lru.New(regexCacheSize)
)

// CompileRegex returns a compiled pattern, reusing recent compilations.
func CompileRegex(pattern string) (*RegexValue, error) {
	regexMu.Lock()
	defer regexMu.Unlock()
	if cached, ok := regexCache.Get(pattern); ok {
		return cached.(*RegexValue), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, Errorf(ErrRegex, "invalid regex /%s/: %v", pattern, err)
	}
	val := &RegexValue{Source: pattern, Re: re}
	regexCache.Add(pattern, val)
	return val, nil
}
