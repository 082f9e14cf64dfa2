// Package lookup answers "what does the public DNS actually serve" for a
// record managed in the panel, by querying a recursive resolver directly.
package lookup

import (
	"context"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// Resolver queries a single recursive resolver, e.g. "1.1.1.1:53".
type Resolver struct {
	addr   string
	client *dns.Client
}

func NewResolver(addr string) *Resolver {
	return &Resolver{addr: addr, client: new(dns.Client)}
}

// Answer is one resolved value for the queried name.
type Answer struct {
	Type  string
	TTL   uint32
	Value string
}

// Query resolves name/recordType against the resolver and returns the
// answers. An empty result with a nil error means the name exists but has
// no records of that type.
func (r *Resolver) Query(ctx context.Context, name, recordType string) ([]Answer, error) {
	qtype, ok := dns.StringToType[strings.ToUpper(recordType)]
	if !ok {
		return nil, fmt.Errorf("unsupported record type %q", recordType)
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), qtype)
	m.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, m, r.addr)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.addr, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("resolver returned %s", dns.RcodeToString[resp.Rcode])
	}

	var answers []Answer
	for _, rr := range resp.Answer {
		answers = append(answers, Answer{
			Type:  dns.TypeToString[rr.Header().Rrtype],
			TTL:   rr.Header().Ttl,
			Value: FormatValue(rr),
		})
	}
	return answers, nil
}

// FormatValue renders the record data without the header prefix.
func FormatValue(rr dns.RR) string {
	switch v := rr.(type) {
	case *dns.A:
		return v.A.String()
	case *dns.AAAA:
		return v.AAAA.String()
	case *dns.CNAME:
		return strings.TrimSuffix(v.Target, ".")
	case *dns.NS:
		return strings.TrimSuffix(v.Ns, ".")
	case *dns.MX:
		return fmt.Sprintf("%d %s", v.Preference, strings.TrimSuffix(v.Mx, "."))
	case *dns.TXT:
		return strings.Join(v.Txt, "")
	case *dns.SRV:
		return fmt.Sprintf("%d %d %d %s", v.Priority, v.Weight, v.Port, strings.TrimSuffix(v.Target, "."))
	case *dns.CAA:
		return fmt.Sprintf("%d %s %q", v.Flag, v.Tag, v.Value)
	default:
		// Strip the "name ttl class type" prefix from the presentation form.
		s := rr.String()
		if i := strings.Index(s, "\t"); i >= 0 {
			fields := strings.Fields(s)
			if len(fields) > 4 {
				return strings.Join(fields[4:], " ")
			}
		}
		return s
	}
}
