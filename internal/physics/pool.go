package physics

// Handle refers to an Object in a Pool. The zero Handle is never valid.
// A handle stays invalid once its object is removed, even if the slot is reused.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// Object is a collidable entity and the rigid body it owns.
type Object struct {
	Name string
	Body Body
}

type slot struct {
	obj   Object
	gen   uint32
	alive bool
}

// Pool stores objects in reusable slots addressed by generational handles.
type Pool struct {
	slots []slot
	free  []uint32
	count int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add stores obj and returns its handle.
func (p *Pool) Add(obj Object) Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot{})
	}
	s := &p.slots[idx]
	s.gen++
	s.obj = obj
	s.alive = true
	p.count++
	return Handle{index: idx, gen: s.gen}
}

// Get returns the object for h, or false if h is stale or was never issued by this pool.
func (p *Pool) Get(h Handle) (*Object, bool) {
	if h.gen == 0 || int(h.index) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[h.index]
	if !s.alive || s.gen != h.gen {
		return nil, false
	}
	return &s.obj, true
}

// Remove deletes the object for h. Returns false if h was already invalid.
func (p *Pool) Remove(h Handle) bool {
	if _, ok := p.Get(h); !ok {
		return false
	}
	s := &p.slots[h.index]
	s.alive = false
	s.obj = Object{}
	p.free = append(p.free, h.index)
	p.count--
	return true
}

// Len returns the number of live objects.
func (p *Pool) Len() int {
	return p.count
}

// Each calls f for every live object in slot order.
func (p *Pool) Each(f func(Handle, *Object)) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.alive {
			f(Handle{index: uint32(i), gen: s.gen}, &s.obj)
		}
	}
}

// Find returns the handle of the first live object with the given name.
func (p *Pool) Find(name string) (Handle, bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.alive && s.obj.Name == name {
			return Handle{index: uint32(i), gen: s.gen}, true
		}
	}
	return Handle{}, false
}
