package mock

import "github.com/fwojciec/uframe"

var _ uframe.RequestBuilder = (*RequestBuilder)(nil)

// RequestBuilder is a mock implementation of uframe.RequestBuilder.
type RequestBuilder struct {
	BuildRequestURLsFn func(catalog *uframe.Catalog, refdes string, opts uframe.RequestOptions) ([]string, error)
}

func (b *RequestBuilder) BuildRequestURLs(catalog *uframe.Catalog, refdes string, opts uframe.RequestOptions) ([]string, error) {
	return b.BuildRequestURLsFn(catalog, refdes, opts)
}
