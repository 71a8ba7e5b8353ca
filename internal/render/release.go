package render

// releaser collects destroy calls while an owner is being built so a failure
// part way through can undo exactly what was created, newest first.
type releaser struct {
	fns []func()
}

func (r *releaser) add(fn func()) {
	r.fns = append(r.fns, fn)
}

// release runs the collected calls in reverse order and forgets them.
func (r *releaser) release() {
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
	r.fns = nil
}

// keep forgets the collected calls; ownership passed to the finished object.
func (r *releaser) keep() {
	r.fns = nil
}
