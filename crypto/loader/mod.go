// Package loader keeps private keys on disk. A key is generated the first time
// it is asked for and read back afterwards.
package loader

// Generator creates the content of a new key.
type Generator interface {
	Generate() ([]byte, error)
}

// Loader reads a key from its storage.
type Loader interface {
	// LoadOrCreate returns the stored key, or stores and returns a new one
	// made by the generator.
	LoadOrCreate(Generator) ([]byte, error)

	// Load returns the stored key, or an error if there is none.
	Load() ([]byte, error)
}
