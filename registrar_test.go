//go:build !wasip1

package envoy

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/envoy-sdk-go/domain/entities"
	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/extension/accesslog"
	"github.com/reglet-dev/envoy-sdk-go/extension/httpfilter"
	"github.com/reglet-dev/envoy-sdk-go/extension/netfilter"
)

func newHTTP(entities.InstanceID) (httpfilter.Factory, error) { return nil, nil }

func newNet(entities.InstanceID) (netfilter.Factory, error) { return nil, nil }

func newLogger(entities.InstanceID) (accesslog.Logger, error) { return nil, nil }

func addHTTP(names ...string) RegisterFunc {
	return func(m *Module) error {
		for _, name := range names {
			if err := m.AddHTTPFilter(name, newHTTP); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestRegistrar_RegisterAfterStartAppliesImmediately(t *testing.T) {
	r := NewRegistrar()
	require.NoError(t, r.Start())

	require.NoError(t, r.Register(addHTTP("authz")))

	assert.Equal(t, 0, r.Pending())
	assert.Equal(t, []string{"authz"}, r.Module().Names())
}

func TestRegistrar_RegisterBeforeStartIsQueued(t *testing.T) {
	r := NewRegistrar()

	require.NoError(t, r.Register(addHTTP("authz")))

	assert.False(t, r.Started())
	assert.Equal(t, 1, r.Pending())
	assert.Equal(t, 0, r.Module().Len())
}

func TestRegistrar_StartMergesAllPendingFragments(t *testing.T) {
	r := NewRegistrar()

	require.NoError(t, r.Register(addHTTP("authz", "ratelimit")))
	require.NoError(t, r.Register(func(m *Module) error {
		return m.AddNetworkFilter("tcp_proxy", newNet)
	}))
	require.NoError(t, r.Register(func(m *Module) error {
		return m.AddAccessLogger("audit", newLogger)
	}))

	require.NoError(t, r.Start())

	assert.True(t, r.Started())
	assert.Equal(t, 0, r.Pending())
	assert.Equal(t, entities.Implementors{
		entities.KindHTTPFilter:    {"authz", "ratelimit"},
		entities.KindNetworkFilter: {"tcp_proxy"},
		entities.KindAccessLogger:  {"audit"},
	}, r.Module().Extensions())
}

func TestRegistrar_DuplicateAcrossFragmentsKeepsFirst(t *testing.T) {
	r := NewRegistrar()

	require.NoError(t, r.Register(addHTTP("authz")))
	require.NoError(t, r.Register(func(m *Module) error {
		if err := m.AddNetworkFilter("authz", newNet); err != nil {
			return err
		}
		return m.AddHTTPFilter("cors", newHTTP)
	}))

	err := r.Start()
	require.Error(t, err)

	var dup *errors.DuplicateExtensionError
	require.True(t, stdErrors.As(err, &dup))
	assert.Equal(t, "authz", dup.Name)

	assert.Equal(t, entities.Implementors{
		entities.KindHTTPFilter: {"authz", "cors"},
	}, r.Module().Extensions())
}

func TestRegistrar_FailingRegistrationKeepsPartialWork(t *testing.T) {
	r := NewRegistrar()
	boom := stdErrors.New("boom")

	require.NoError(t, r.Register(func(m *Module) error {
		if err := m.AddHTTPFilter("authz", newHTTP); err != nil {
			return err
		}
		return boom
	}))
	require.NoError(t, r.Register(addHTTP("cors")))

	err := r.Start()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"authz", "cors"}, r.Module().Names())
}

func TestRegistrar_StartIsIdempotent(t *testing.T) {
	r := NewRegistrar()
	require.NoError(t, r.Register(addHTTP("authz")))
	require.NoError(t, r.Register(addHTTP("authz")))

	first := r.Start()
	require.Error(t, first)

	second := r.Start()
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"authz"}, r.Module().Names())
}

func TestRegistrar_DuplicateAfterStart(t *testing.T) {
	r := NewRegistrar()
	require.NoError(t, r.Start())
	require.NoError(t, r.Register(addHTTP("authz")))

	err := r.Register(func(m *Module) error {
		return m.AddAccessLogger("authz", newLogger)
	})

	var dup *errors.DuplicateExtensionError
	require.True(t, stdErrors.As(err, &dup))
	assert.Equal(t, entities.Implementors{entities.KindHTTPFilter: {"authz"}}, r.Module().Extensions())
}
