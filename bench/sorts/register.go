// register.go installs NewTable as the bench package's default table constructor.
// The init() runs when any package imports bench/sorts, which keeps bench free of
// an import of its implementations.
package sorts

import "github.com/greensort/greensort/bench"

func init() {
	bench.NewDefaultTableFunc = NewTable
}
