package geoip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when no resolver could produce a country.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// CountryResolver resolves ISO country codes from IP addresses. Location is
// strictly best-effort: callers ignore a failing chain and leave the
// country empty.
type CountryResolver interface {
	CountryCode(ctx context.Context, ip string) (string, error)
}

// DBResolver provides country lookups backed by a local MaxMind GeoIP2
// database, the first provider in the chain.
type DBResolver struct {
	reader *geoip2.Reader
}

// NewDBResolver opens the GeoIP database at the given path. When the path is
// empty, nil is returned so the chain simply skips this provider.
func NewDBResolver(path string) (*DBResolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &DBResolver{reader: reader}, nil
}

// CountryCode returns the ISO country code for the provided IP.
func (r *DBResolver) CountryCode(_ context.Context, ip string) (string, error) {
	if r == nil || r.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil || record.Country.IsoCode == "" {
		return "", ErrUnavailable
	}
	return record.Country.IsoCode, nil
}

// Close closes the underlying database reader.
func (r *DBResolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

// Chain tries each resolver in order and returns the first country found.
// Nil entries are skipped so optional providers slot in without checks at
// the call site.
type Chain struct {
	resolvers []CountryResolver
}

func NewChain(resolvers ...CountryResolver) *Chain {
	var active []CountryResolver
	for _, r := range resolvers {
		switch v := r.(type) {
		case *DBResolver:
			if v == nil {
				continue
			}
		case *HTTPResolver:
			if v == nil {
				continue
			}
		case nil:
			continue
		}
		active = append(active, r)
	}
	return &Chain{resolvers: active}
}

func (c *Chain) CountryCode(ctx context.Context, ip string) (string, error) {
	for _, r := range c.resolvers {
		country, err := r.CountryCode(ctx, ip)
		if err == nil && country != "" {
			return country, nil
		}
	}
	return "", ErrUnavailable
}

var (
	_ CountryResolver = (*DBResolver)(nil)
	_ CountryResolver = (*Chain)(nil)
)
