package sim

import "sync"

// Relay records the grinder contactor output
type Relay struct {
	mtx      sync.Mutex
	on       bool
	switches int
	onChange func(on bool)
}

// OnChange registers f to be called whenever the output changes level
func (r *Relay) OnChange(f func(on bool)) {
	r.mtx.Lock()
	r.onChange = f
	r.mtx.Unlock()
}

// High turns the grinder on
func (r *Relay) High() {
	r.set(true)
}

// Low turns the grinder off
func (r *Relay) Low() {
	r.set(false)
}

// On reports the current level
func (r *Relay) On() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.on
}

// Switches counts level changes since creation
func (r *Relay) Switches() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.switches
}

func (r *Relay) set(on bool) {
	r.mtx.Lock()
	changed := r.on != on
	r.on = on
	if changed {
		r.switches++
	}
	f := r.onChange
	r.mtx.Unlock()

	if changed && f != nil {
		f(on)
	}
}
