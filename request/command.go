package request

import (
	"net/http"
	"sort"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/setianjay/api-contract-tests/diag"
)

var sensitiveHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// CurlCommand renders a shell command that reproduces a request, for debug logs. Values of
// the Authorization and Cookie headers are masked.
func CurlCommand(method Method, uri string, headers http.Header, body string) string {
	var b commandBuilder
	b.add("curl", "-X", string(method))
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range headers[name] {
			if sensitiveHeaders[http.CanonicalHeaderKey(name)] {
				v = diag.MaskedValue
			}
			b.add("-H", name+": "+v)
		}
	}
	if body != "" {
		b.add("--data", body)
	}
	b.add(uri)
	return b.String()
}
