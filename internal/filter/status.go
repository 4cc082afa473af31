package filter

// StatusPolicy decides whether an HTTP status code counts as a hit.
//
// The default policy treats 2xx and 3xx as found, plus 401 and 403: a
// resource that demands credentials or refuses access exists. Soft-404
// pages served with a 200 are handled separately by the Soft404 filter.
// An explicit include list replaces the default entirely; an exclude list
// subtracts from it.
type StatusPolicy struct {
	include map[int]struct{}
	exclude map[int]struct{}
}

// NewStatusPolicy creates a policy. include and exclude are mutually
// exclusive at the CLI layer; both empty means the default policy.
func NewStatusPolicy(include, exclude []int) *StatusPolicy {
	p := &StatusPolicy{
		include: make(map[int]struct{}, len(include)),
		exclude: make(map[int]struct{}, len(exclude)),
	}
	for _, code := range include {
		p.include[code] = struct{}{}
	}
	for _, code := range exclude {
		p.exclude[code] = struct{}{}
	}
	return p
}

// Found reports whether a response with the given status counts as a hit.
func (p *StatusPolicy) Found(code int) bool {
	if len(p.include) > 0 {
		_, ok := p.include[code]
		return ok
	}
	if _, ok := p.exclude[code]; ok {
		return false
	}
	if code >= 200 && code < 400 {
		return true
	}
	return code == 401 || code == 403
}
