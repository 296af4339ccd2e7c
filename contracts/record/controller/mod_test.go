package controller

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/contracts/record"
	sysctl "go.dedis.ch/recordstore/contracts/system/controller"
	"go.dedis.ch/recordstore/core/execution/native"
	hostctl "go.dedis.ch/recordstore/core/host/controller"
	kvctl "go.dedis.ch/recordstore/core/store/kv/controller"
	"go.dedis.ch/recordstore/crypto/loader"
	"go.dedis.ch/recordstore/internal/testing/fake"
)

func TestMiniController_OnStart(t *testing.T) {
	ctrl := NewController()

	inj := node.NewInjector()
	err := ctrl.OnStart(fake.Flags{}, inj)
	require.EqualError(t, err,
		"failed to resolve native service: couldn't find dependency for '*native.Service'")

	exec := native.NewExecution()
	inj.Inject(exec)

	err = ctrl.OnStart(fake.Flags{}, inj)
	require.NoError(t, err)
	require.True(t, exec.Has(record.ContractName))

	require.NoError(t, ctrl.OnStop(inj))
}

func TestRecordCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "test.db")
	key := filepath.Join(dir, "payer.key")
	recordKey := filepath.Join(dir, "record.key")

	out := new(bytes.Buffer)
	err := run(db, out, "record", "init", "--key", key, "--record", recordKey, "--data", "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load key")

	_, err = loader.LoadOrCreateSigner(loader.NewFileLoader(key))
	require.NoError(t, err)

	require.NoError(t, run(db, out, "account", "address", "--key", key))
	payer := strings.TrimSpace(out.String())

	err = run(db, nil, "record", "init", "--key", key, "--record", recordKey, "--data", "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient funds")

	err = run(db, nil, "account", "fund", "--address", payer, "--lamports", "2000000")
	require.NoError(t, err)

	out.Reset()
	err = run(db, out, "record", "init", "--key", key, "--record", recordKey, "--data", "42")
	require.NoError(t, err)

	addr := strings.TrimSuffix(strings.TrimPrefix(out.String(), "record "), " initialized\n")

	out.Reset()
	require.NoError(t, run(db, out, "record", "show", "--address", addr))
	require.Equal(t, "42\n", out.String())

	err = run(db, nil, "record", "init", "--key", key, "--record", recordKey, "--data", "43")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already initialized")

	out.Reset()
	require.NoError(t, run(db, out, "record", "update", "--key", key, "--address", addr, "--data", "7"))
	require.Equal(t, "record "+addr+" updated\n", out.String())

	out.Reset()
	require.NoError(t, run(db, out, "record", "show", "--address", addr))
	require.Equal(t, "7\n", out.String())

	err = run(db, nil, "record", "update", "--key", key, "--address", payer, "--data", "7")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rejected by host")

	err = run(db, nil, "record", "show", "--address", payer)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rejected by host")

	err = run(db, nil, "record", "show", "--address", "zz")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid address")
}

// -----------------------------------------------------------------------------
// Utility functions

func run(db string, out *bytes.Buffer, args ...string) error {
	if out == nil {
		out = new(bytes.Buffer)
	}

	builder := node.NewBuilderWithCfg("test", out,
		kvctl.NewMinimal(), hostctl.NewMinimal(), sysctl.NewController(), NewController())

	return builder.Build().Run(append([]string{"test", "--db", db}, args...))
}
