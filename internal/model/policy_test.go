package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkPolicy_DisabledByDefault(t *testing.T) {
	var p NetworkPolicy

	assert.True(t, errors.Is(p.Allow("example.com"), ErrNetworkDisabled))
}

func TestNetworkPolicy_EmptyAllowListPermitsAll(t *testing.T) {
	p := NetworkPolicy{Enabled: true}

	assert.NoError(t, p.Allow("example.com"))
	assert.NoError(t, p.Allow("docs.example.com:8080"))
}

func TestNetworkPolicy_AllowList(t *testing.T) {
	p := NetworkPolicy{Enabled: true, AllowDomains: []string{"Example.COM"}}

	assert.NoError(t, p.Allow("example.com"))
	assert.NoError(t, p.Allow("docs.example.com"))
	assert.NoError(t, p.Allow("example.com:443"))
	assert.Error(t, p.Allow("evilexample.com"))
	assert.Error(t, p.Allow("other.org"))
}

func TestNetworkPolicy_InvalidHost(t *testing.T) {
	p := NetworkPolicy{Enabled: true}

	assert.Error(t, p.Allow("   "))
}
