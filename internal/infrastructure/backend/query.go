package backend

import (
	"net/url"
	"strconv"
)

type query url.Values

func (q query) str(key, v string) query {
	if v != "" {
		url.Values(q).Set(key, v)
	}
	return q
}

func (q query) num(key string, v int) query {
	if v > 0 {
		url.Values(q).Set(key, strconv.Itoa(v))
	}
	return q
}

func (q query) values() url.Values { return url.Values(q) }

func newQuery() query { return query(url.Values{}) }
