package fsops

import (
	"os"
	"sync"

	"github.com/petasbytes/go-pilot/internal/safety"
)

// Sandbox roots come from AGT_READ_ROOT / AGT_WRITE_ROOT and are resolved
// once per process; later env changes have no effect.
var roots = sync.OnceValues(func() ([2]string, error) {
	read, write, err := safety.InitSandboxRoot(os.Getenv("AGT_READ_ROOT"), os.Getenv("AGT_WRITE_ROOT"))
	return [2]string{read, write}, err
})

func getRoots() (string, string, error) {
	r, err := roots()
	return r[0], r[1], err
}

// Roots reports the resolved absolute read and write roots.
func Roots() (read, write string, err error) {
	return getRoots()
}
