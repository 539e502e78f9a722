package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

type samplerCache struct {
	device *wgpu.Device
	cache  *lru.Cache[wgpu.SamplerDescriptor, *wgpu.Sampler]
}

func newSamplerCache(device *wgpu.Device) *samplerCache {
	cache, _ := lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16, releaseSamplerOnEviction)

	return &samplerCache{device: device, cache: cache}
}

func (sc *samplerCache) Purge() {
	sc.cache.Purge()
}

func releaseSamplerOnEviction(_ wgpu.SamplerDescriptor, sampler *wgpu.Sampler) {
	sampler.Release()
}

// CachedSampler returns a sampler matching the description. The sampler
// is owned by the cache, do not call Release on it.
func (ctx *Context) CachedSampler(desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	if sampler, ok := ctx.samplers.cache.Get(desc); ok {
		return sampler, nil
	}

	sampler, err := ctx.Device.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	ctx.samplers.cache.Add(desc, sampler)

	return sampler, nil
}
