package academy

// Resolution is the outcome of a tenant lookup: either Found with an academy or NotFound.
type Resolution struct {
	academy *Academy
}

func Found(a *Academy) Resolution {
	return Resolution{academy: a}
}

func NotFound() Resolution {
	return Resolution{}
}

// Academy returns the resolved academy and whether one was found.
func (r Resolution) Academy() (*Academy, bool) {
	return r.academy, r.academy != nil
}

func (r Resolution) Found() bool {
	return r.academy != nil
}
