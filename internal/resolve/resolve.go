// Package resolve turns a user-supplied host string into the concrete
// (ip, port) pairs worth probing: direct A/AAAA answers and the targets any
// _minecraft._tcp SRV record points at. Host-string parsing and IP/domain
// classification are grounded on the teacher's internal/ping/resolve.go
// (resolveIP, resolveJavaSRV); the concurrent, retrying DNS exchange is
// grounded on other_examples' srvclient, which hand-rolls a miekg/dns client
// for the same reason this module needs one: net.Resolver cannot express a
// per-query timeout/retry budget or issue a raw SRV query.
package resolve

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"emperror.dev/errors"

	"mcslp/internal/status"
)

const (
	queryTimeout = 10 * time.Second
	queryRetries = 3

	defaultJavaPort        = 25565
	defaultBedrockIPv4Port = 19132
	defaultBedrockIPv6Port = 19133
)

var hostPortRe = regexp.MustCompile(`^(?:\[(.+?)\]|(.+?))(?:[:：](\d+))?$`)
var domainRe = regexp.MustCompile(`^(?:[A-Za-z0-9][A-Za-z0-9-]{0,62}\.)(?:[A-Za-z0-9-]{1,63}\.)*(?:[A-Za-z]{2,}|xn--[A-Za-z0-9-]{2,})$`)

// Kind classifies the parsed host before any DNS lookup happens.
type Kind int

const (
	KindIPv4 Kind = iota
	KindIPv6
	KindDomain
)

// ParsedHost is the result of splitting a user-supplied address into its
// host and port components.
type ParsedHost struct {
	Host string
	Port uint16 // 0 means "use protocol default"
	Kind Kind
}

// ParseHost splits host[:port] / [ipv6]:port (ASCII or fullwidth colon) and
// classifies the host part.
func ParseHost(input string) (ParsedHost, error) {
	m := hostPortRe.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return ParsedHost{}, errors.Errorf("resolve: cannot parse address %q", input)
	}
	host := m[1]
	if host == "" {
		host = m[2]
	}
	if host == "" {
		return ParsedHost{}, errors.Errorf("resolve: empty host in %q", input)
	}

	var port uint16
	if m[3] != "" {
		p, err := strconv.ParseUint(m[3], 10, 16)
		if err != nil {
			return ParsedHost{}, errors.Wrapf(err, "resolve: invalid port %q", m[3])
		}
		if p > 65535 {
			return ParsedHost{}, errors.Errorf("resolve: port %d out of range", p)
		}
		port = uint16(p)
	}

	kind, err := classify(host)
	if err != nil {
		return ParsedHost{}, err
	}
	return ParsedHost{Host: host, Port: port, Kind: kind}, nil
}

func classify(host string) (Kind, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() != nil {
			return KindIPv4, nil
		}
		return KindIPv6, nil
	}
	if strings.EqualFold(host, "localhost") {
		return KindDomain, nil
	}
	if _, err := idna.Lookup.ToASCII(host); err != nil {
		return 0, errors.Wrapf(err, "resolve: %q is not a valid IP or IDNA domain", host)
	}
	if !domainRe.MatchString(host) {
		return 0, errors.Errorf("resolve: %q does not match the domain grammar", host)
	}
	return KindDomain, nil
}

// Resolver issues DNS queries with a bounded per-query deadline and retry
// budget, trying each configured DNS server in turn.
type Resolver struct {
	client  *dns.Client
	servers []string
	timeout time.Duration
	retries int
}

// New builds a Resolver from the system's /etc/resolv.conf servers, falling
// back to two well-known public resolvers if none can be read. timeout and
// retries bound the per-query deadline and retry budget (§4.1); a
// non-positive value for either falls back to the §4.1 default
// (10s/3 retries), matching config.Config's own defaults.
func New(timeout time.Duration, retries int) *Resolver {
	if timeout <= 0 {
		timeout = queryTimeout
	}
	if retries <= 0 {
		retries = queryRetries
	}
	servers := []string{"1.1.1.1:53", "8.8.8.8:53"}
	if cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cfg.Servers) > 0 {
		servers = nil
		for _, s := range cfg.Servers {
			servers = append(servers, net.JoinHostPort(s, cfg.Port))
		}
	}
	return &Resolver{
		client:  &dns.Client{Timeout: timeout},
		servers: servers,
		timeout: timeout,
		retries: retries,
	}
}

func (r *Resolver) exchange(ctx context.Context, m *dns.Msg) (*dns.Msg, error) {
	var lastErr error
	for attempt := 0; attempt < r.retries; attempt++ {
		for _, server := range r.servers {
			qctx, cancel := context.WithTimeout(ctx, r.timeout)
			in, _, err := r.client.ExchangeContext(qctx, m, server)
			cancel()
			if err == nil && in != nil {
				return in, nil
			}
			if err != nil {
				lastErr = err
			}
		}
	}
	if lastErr == nil {
		lastErr = errors.New("resolve: no DNS servers configured")
	}
	return nil, lastErr
}

func (r *Resolver) lookupA(ctx context.Context, domain string) (net.IP, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	in, err := r.exchange(ctx, m)
	if err != nil {
		return nil, err
	}
	for _, rr := range in.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A, nil
		}
	}
	return nil, nil
}

func (r *Resolver) lookupAAAA(ctx context.Context, domain string) (net.IP, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeAAAA)
	in, err := r.exchange(ctx, m)
	if err != nil {
		return nil, err
	}
	for _, rr := range in.Answer {
		if aaaa, ok := rr.(*dns.AAAA); ok {
			return aaaa.AAAA, nil
		}
	}
	return nil, nil
}

type srvAnswer struct {
	target string
	port   uint16
}

func (r *Resolver) lookupSRV(ctx context.Context, domain string) (*srvAnswer, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn("_minecraft._tcp."+domain), dns.TypeSRV)
	in, err := r.exchange(ctx, m)
	if err != nil {
		return nil, err
	}
	for _, rr := range in.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			return &srvAnswer{target: strings.TrimSuffix(srv.Target, "."), port: srv.Port}, nil
		}
	}
	return nil, nil
}

// Resolve turns one ParsedHost into the ProbeTargets worth dialing. ph.Port
// supplies the caller's explicit port (0 meaning "not specified", in which
// case each produced target carries the protocol default appropriate to
// its kind, applied later by the caller).
func Resolve(ctx context.Context, r *Resolver, ph ParsedHost, allowSRV bool) ([]status.ProbeTarget, error) {
	switch ph.Kind {
	case KindIPv4:
		return []status.ProbeTarget{{IP: ph.Host, Port: ph.Port, Kind: status.KindIPv4, Refer: ph.Host}}, nil
	case KindIPv6:
		return []status.ProbeTarget{{IP: ph.Host, Port: ph.Port, Kind: status.KindIPv6, Refer: ph.Host}}, nil
	}

	asciiHost, err := idna.Lookup.ToASCII(ph.Host)
	if err != nil {
		asciiHost = ph.Host
	}

	var (
		mu      sync.Mutex
		targets []status.ProbeTarget
		wg      sync.WaitGroup
		errs    []error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		ip, err := r.lookupAAAA(ctx, asciiHost)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		if ip != nil {
			targets = append(targets, status.ProbeTarget{IP: ip.String(), Port: ph.Port, Kind: status.KindIPv6, Refer: asciiHost})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ip, err := r.lookupA(ctx, asciiHost)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		if ip != nil {
			targets = append(targets, status.ProbeTarget{IP: ip.String(), Port: ph.Port, Kind: status.KindIPv4, Refer: asciiHost})
		}
	}()

	var srvTargets []status.ProbeTarget
	if allowSRV {
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv, err := r.lookupSRV(ctx, asciiHost)
			if err != nil || srv == nil {
				return
			}
			resolved, err := r.resolveSRVTarget(ctx, srv.target, srv.port)
			if err != nil {
				return
			}
			mu.Lock()
			srvTargets = resolved
			mu.Unlock()
		}()
	}

	wg.Wait()

	targets = append(targets, dedupeSRV(targets, srvTargets)...)

	if len(targets) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}
	return targets, nil
}

// resolveSRVTarget resolves an SRV record's target host (which is itself a
// domain) with SRV lookup disabled, tagging results as SRV-derived.
func (r *Resolver) resolveSRVTarget(ctx context.Context, target string, port uint16) ([]status.ProbeTarget, error) {
	asciiTarget, err := idna.Lookup.ToASCII(target)
	if err != nil {
		asciiTarget = target
	}
	if ip := net.ParseIP(target); ip != nil {
		kind := status.KindSRVIPv4
		if ip.To4() == nil {
			kind = status.KindSRVIPv6
		}
		return []status.ProbeTarget{{IP: ip.String(), Port: port, Kind: kind, Refer: asciiTarget}}, nil
	}

	var out []status.ProbeTarget
	if ip, err := r.lookupAAAA(ctx, asciiTarget); err == nil && ip != nil {
		out = append(out, status.ProbeTarget{IP: ip.String(), Port: port, Kind: status.KindSRVIPv6, Refer: asciiTarget})
	}
	if ip, err := r.lookupA(ctx, asciiTarget); err == nil && ip != nil {
		out = append(out, status.ProbeTarget{IP: ip.String(), Port: port, Kind: status.KindSRVIPv4, Refer: asciiTarget})
	}
	return out, nil
}

// dedupeSRV drops SRV-derived targets that duplicate a direct target's
// (ip, port) once the SRV- prefix is conceptually stripped, or whose port
// is the Java default and whose ip already appears among direct targets.
func dedupeSRV(direct []status.ProbeTarget, srv []status.ProbeTarget) []status.ProbeTarget {
	seen := make(map[string]bool, len(direct))
	for _, t := range direct {
		seen[fmt.Sprintf("%s:%d", t.IP, t.Port)] = true
	}
	ipOnly := make(map[string]bool, len(direct))
	for _, t := range direct {
		ipOnly[t.IP] = true
	}

	var out []status.ProbeTarget
	for _, t := range srv {
		key := fmt.Sprintf("%s:%d", t.IP, t.Port)
		if seen[key] {
			continue
		}
		if t.Port == defaultJavaPort && ipOnly[t.IP] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// DefaultPort fills in the protocol-appropriate default port for a target
// whose parsed port was 0 (unspecified).
func DefaultPort(kind status.TargetKind, bedrock bool) uint16 {
	if bedrock {
		if kind == status.KindIPv6 || kind == status.KindSRVIPv6 {
			return defaultBedrockIPv6Port
		}
		return defaultBedrockIPv4Port
	}
	return defaultJavaPort
}
