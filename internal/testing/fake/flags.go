package fake

import "time"

// Flags is a fake implementation of the flags of an action. The values are
// read from the map and default to the zero value.
//
// - implements cli.Flags
type Flags map[string]interface{}

// String implements cli.Flags.
func (f Flags) String(name string) string {
	v, _ := f[name].(string)
	return v
}

// Duration implements cli.Flags.
func (f Flags) Duration(name string) time.Duration {
	v, _ := f[name].(time.Duration)
	return v
}

// Path implements cli.Flags.
func (f Flags) Path(name string) string {
	v, _ := f[name].(string)
	return v
}

// Int implements cli.Flags.
func (f Flags) Int(name string) int {
	v, _ := f[name].(int)
	return v
}

// Uint64 implements cli.Flags.
func (f Flags) Uint64(name string) uint64 {
	v, _ := f[name].(uint64)
	return v
}

// Bool implements cli.Flags.
func (f Flags) Bool(name string) bool {
	v, _ := f[name].(bool)
	return v
}
