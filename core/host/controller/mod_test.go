package controller

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/recordstore/cli/node"
	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/execution/native"
	"go.dedis.ch/recordstore/core/host"
	"go.dedis.ch/recordstore/core/store/kv"
	"go.dedis.ch/recordstore/core/txn/signed"
	"go.dedis.ch/recordstore/crypto/ed25519"
	"go.dedis.ch/recordstore/internal/testing/fake"
)

func TestMinimal_SetCommands(t *testing.T) {
	builder := node.NewBuilderWithCfg("test", new(bytes.Buffer))

	NewMinimal().SetCommands(builder)
}

func TestMinimal_OnStart(t *testing.T) {
	inj := node.NewInjector()

	err := NewMinimal().OnStart(fake.Flags{}, inj)
	require.EqualError(t, err, "injector: couldn't find dependency for 'kv.DB'")

	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	inj.Inject(db)

	err = NewMinimal().OnStart(fake.Flags{}, inj)
	require.NoError(t, err)

	var h *host.Host
	require.NoError(t, inj.Resolve(&h))

	var exec *native.Service
	require.NoError(t, inj.Resolve(&exec))

	err = NewMinimal().OnStart(fake.Flags{GenesisFlag: filepath.Join(t.TempDir(), "none.yml")}, inj)
	require.Error(t, err)
	require.Contains(t, err.Error(), "genesis: failed to read file")

	require.NoError(t, NewMinimal().OnStop(inj))
}

func TestMinimal_Genesis(t *testing.T) {
	addr := access.Address{1}

	path := filepath.Join(t.TempDir(), "genesis.yml")
	data := "accounts:\n  - address: " + addr.String() + "\n    lamports: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	db, err := kv.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	defer db.Close()

	inj := node.NewInjector()
	inj.Inject(db)

	// The genesis is only applied once.
	for i := 0; i < 2; i++ {
		err = NewMinimal().OnStart(fake.Flags{GenesisFlag: path}, inj)
		require.NoError(t, err)
	}

	var h *host.Host
	require.NoError(t, inj.Resolve(&h))

	acc, found, err := h.GetAccount(addr)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(50), acc.Lamports)
}

func TestMetricsAction_Execute(t *testing.T) {
	tx, err := signed.NewTransaction(0, ed25519.NewSigner().GetPublicKey())
	require.NoError(t, err)

	// An unsigned transaction is rejected and counted.
	_, err = host.NewHost(host.NewMemStorage(), native.NewExecution()).Execute(tx)
	require.Error(t, err)

	out := new(bytes.Buffer)

	builder := node.NewBuilderWithCfg("test", out)
	NewMinimal().SetCommands(builder)

	err = builder.Build().Run([]string{"test", "metrics"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "# TYPE recordstore_host_invocations_total counter")
	require.Contains(t, out.String(), `result="rejected"`)
}
