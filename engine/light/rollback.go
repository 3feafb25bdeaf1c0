package light

// rollback collects undo steps for a multi-step allocation. Unless commit is called,
// run executes the steps in reverse order of registration.
//
//	rb := &rollback{}
//	defer rb.run()
//	... rb.push(func() { alloc.DestroyImage(img) }) ...
//	rb.commit()
type rollback struct {
	undo      []func()
	committed bool
}

func (r *rollback) push(fn func()) {
	r.undo = append(r.undo, fn)
}

func (r *rollback) commit() {
	r.committed = true
}

// run undoes every pushed step unless the rollback was committed. It reports how many steps ran.
func (r *rollback) run() int {
	if r.committed {
		return 0
	}
	n := len(r.undo)
	for i := n - 1; i >= 0; i-- {
		r.undo[i]()
	}
	r.undo = nil
	return n
}
