// Package share builds and parses links that reproduce a specific suggestion.
package share

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Param is the query parameter carrying an entry's canonical index.
const Param = "item"

// RouteIndex names the retrieval endpoint in a Routes table.
const RouteIndex = "index"

var (
	// ErrURLGeneration means a link could not be built, usually because the
	// route table does not know the retrieval endpoint.
	ErrURLGeneration = errors.New("unable to generate url")
	// ErrInvalidIndex means the item parameter is present but not a valid index.
	ErrInvalidIndex = errors.New("invalid item index")
)

// Routes resolves named endpoints to URL paths.
type Routes interface {
	Path(name string) (string, bool)
}

// Builder produces share links against the retrieval endpoint.
type Builder struct {
	routes Routes
}

func New(routes Routes) *Builder {
	return &Builder{routes: routes}
}

// Link returns base + the retrieval path + ?item=index. Resolving the result
// through ParseIndex yields index again.
func (b *Builder) Link(base *url.URL, index int) (*url.URL, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrURLGeneration, index)
	}
	u, err := b.endpoint(base)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set(Param, strconv.Itoa(index))
	u.RawQuery = q.Encode()
	return u, nil
}

// RandomLink returns the retrieval endpoint with no item, which picks a fresh
// suggestion on every visit.
func (b *Builder) RandomLink(base *url.URL) (*url.URL, error) {
	return b.endpoint(base)
}

func (b *Builder) endpoint(base *url.URL) (*url.URL, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: no base url", ErrURLGeneration)
	}
	if b == nil || b.routes == nil {
		return nil, fmt.Errorf("%w: no route table", ErrURLGeneration)
	}
	path, ok := b.routes.Path(RouteIndex)
	if !ok {
		return nil, fmt.Errorf("%w: route %q is not registered", ErrURLGeneration, RouteIndex)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("%w: route %q: %v", ErrURLGeneration, RouteIndex, err)
	}
	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return &u, nil
}

// ParseIndex reads the item parameter. ok is false when it is absent. Empty,
// padded, non-numeric, negative or overflowing values return ErrInvalidIndex.
func ParseIndex(q url.Values) (index int, ok bool, err error) {
	vals, present := q[Param]
	if !present || len(vals) == 0 {
		return 0, false, nil
	}
	raw := vals[0]
	n, err := strconv.ParseUint(raw, 10, strconv.IntSize-1)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %q", ErrInvalidIndex, raw)
	}
	return int(n), true, nil
}

// BaseFromRequest derives the scheme and host an inbound request was addressed
// to. X-Forwarded-Proto and X-Forwarded-Host are honoured only when trustProxy
// is set.
func BaseFromRequest(r *http.Request, trustProxy bool) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if trustProxy {
		if p := firstForwarded(r.Header.Get("X-Forwarded-Proto")); p == "http" || p == "https" {
			scheme = p
		}
		if h := firstForwarded(r.Header.Get("X-Forwarded-Host")); h != "" {
			host = h
		}
	}
	return &url.URL{Scheme: scheme, Host: host}
}

func firstForwarded(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
