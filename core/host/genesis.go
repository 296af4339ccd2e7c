package host

import (
	"os"

	"go.dedis.ch/recordstore/core/access"
	"go.dedis.ch/recordstore/core/store"
	"go.dedis.ch/recordstore/core/store/prefixed"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

// Genesis is the initial state of a host. The format is the following:
//
// 	accounts:
// 	  - address: 0a1b...
// 	    lamports: 1000000000
type Genesis struct {
	Accounts []GenesisAccount `yaml:"accounts"`
}

// GenesisAccount is an account funded at genesis.
type GenesisAccount struct {
	Address  string `yaml:"address"`
	Lamports uint64 `yaml:"lamports"`
}

var genesisKey = []byte("genesis")

const hostPrefix = "host"

// ParseGenesis decodes a YAML genesis.
func ParseGenesis(data []byte) (Genesis, error) {
	var genesis Genesis

	err := yaml.UnmarshalStrict(data, &genesis)
	if err != nil {
		return genesis, xerrors.Errorf("failed to decode: %v", err)
	}

	for _, acc := range genesis.Accounts {
		_, err = access.ParseAddress(acc.Address)
		if err != nil {
			return genesis, xerrors.Errorf("invalid address '%s': %v", acc.Address, err)
		}
	}

	return genesis, nil
}

// LoadGenesis reads and decodes the genesis file.
func LoadGenesis(path string) (Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, xerrors.Errorf("failed to read file: %v", err)
	}

	return ParseGenesis(data)
}

// ApplyGenesis funds the accounts of the genesis. It is applied only once for
// a given storage and it returns false if it was already applied.
func (h *Host) ApplyGenesis(genesis Genesis) (bool, error) {
	h.Lock()
	defer h.Unlock()

	applied := false

	err := h.storage.Update(func(snap store.Snapshot) error {
		meta := prefixed.NewSnapshot(hostPrefix, snap)

		done, err := meta.Get(genesisKey)
		if err != nil {
			return xerrors.Errorf("failed to read genesis flag: %v", err)
		}

		if done != nil {
			return nil
		}

		for _, acc := range genesis.Accounts {
			addr, err := access.ParseAddress(acc.Address)
			if err != nil {
				return xerrors.Errorf("invalid address '%s': %v", acc.Address, err)
			}

			err = credit(snap, addr, acc.Lamports)
			if err != nil {
				return xerrors.Errorf("failed to fund %v: %w", addr, err)
			}
		}

		applied = true

		return meta.Set(genesisKey, []byte{1})
	})

	if err != nil {
		return false, xerrors.Errorf("failed to apply genesis: %w", err)
	}

	if applied {
		h.logger.Info().Int("accounts", len(genesis.Accounts)).Msg("genesis applied")
	}

	return applied, nil
}
