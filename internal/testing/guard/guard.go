// Package guard forces test mode for any package that imports it, keeping
// accidental `go test` runs from touching real infrastructure.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("AEGIS_TEST_MODE") == "" {
			_ = os.Setenv("AEGIS_TEST_MODE", "1")
		}
	})
}
