package panel

import "sync"

// Open panels are numbered so that each one listens on its own port.
var instances = struct {
	sync.Mutex
	used map[int]bool
}{used: make(map[int]bool)}

// Reserve the smallest free instance number.
func acquireInstance() int {
	instances.Lock()
	defer instances.Unlock()

	n := 0
	for instances.used[n] {
		n++
	}
	instances.used[n] = true
	return n
}

func releaseInstance(n int) {
	instances.Lock()
	defer instances.Unlock()
	delete(instances.used, n)
}
