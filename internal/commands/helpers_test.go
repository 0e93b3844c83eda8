package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenpath-systems/goldenpath/internal/retry"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

func TestParseServices_Default(t *testing.T) {
	services, err := parseServices(nil)
	require.NoError(t, err)
	assert.Equal(t, types.Services, services)
}

func TestParseServices_Named(t *testing.T) {
	services, err := parseServices([]string{"database_redis", "auth_service"})
	require.NoError(t, err)
	assert.Equal(t, []types.ServiceType{types.ServiceRedis, types.ServiceAuth}, services)
}

func TestParseServices_Unknown(t *testing.T) {
	_, err := parseServices([]string{"mainframe"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `unknown service type "mainframe"`)
}

func TestPolicyFunc_PrefersConfigOverride(t *testing.T) {
	override := types.RetryPolicy{
		Timeout:    3 * time.Second,
		MaxRetries: 7,
		DelayBase:  250 * time.Millisecond,
		Strategy:   types.RetryFixed,
	}
	cfg := &types.ProjectConfig{
		Environment: types.EnvProduction,
		Retry:       map[types.ServiceType]types.RetryPolicy{types.ServiceAuth: override},
	}

	fn := policyFunc(cfg)

	assert.Equal(t, override, fn(types.ServiceAuth, types.EnvProduction))
	assert.Equal(t, retry.PolicyFor(types.ServiceRedis, types.EnvProduction),
		fn(types.ServiceRedis, types.EnvProduction))
}
