// Package resolver turns short repository references into domain.RepositoryRef values.
//
// Accepted forms:
//
//	user/name
//	user/name#ref
//	user/name:/sub/dir#ref
//	gitlab:user/name
//	github.com:user/name
//	https://gitlab.com/user/name
//	https://gitlab/user/name
//	git@github.com:user/name.git
//
// Matching is a left-to-right chain: a site prefix matcher, the mandatory
// user/name matcher, then the optional subdirectory and fragment matchers.
package resolver

import (
	"regexp"
	"strings"

	"github.com/quantmind-br/see/internal/domain"
)

// DefaultSite is used when the reference carries no site prefix
const DefaultSite = "github"

type siteMatcher struct {
	name    string
	pattern *regexp.Regexp // group 1 is the site token; the match is a prefix of the input
}

// Resolver parses reference strings
type Resolver struct {
	sites       []siteMatcher
	userName    *regexp.Regexp
	subdir      *regexp.Regexp
	fragment    *regexp.Regexp
	tldSuffixes []string
}

// New creates a Resolver with the standard matcher chain
func New() *Resolver {
	return &Resolver{
		sites: []siteMatcher{
			{name: "https", pattern: regexp.MustCompile(`^https://([^:/\s@]+)/`)},
			{name: "host", pattern: regexp.MustCompile(`^([^:/\s@]+\.[^:/\s]+)/`)},
			{name: "ssh", pattern: regexp.MustCompile(`^git@([^:/\s]+)[:/]`)},
			{name: "alias", pattern: regexp.MustCompile(`^([^/:\s]+):`)},
		},
		userName: regexp.MustCompile(`^([^/\s:]+)/([^:#]*)`),
		subdir:   regexp.MustCompile(`^:((?:/[^/\s#:]+)+)/?`),
		fragment: regexp.MustCompile(`^#([^#]*)`),
		tldSuffixes: []string{
			".com",
			".org",
		},
	}
}

// Resolve parses input into a RepositoryRef
func (r *Resolver) Resolve(input string) (*domain.RepositoryRef, error) {
	src := strings.TrimSpace(input)
	if src == "" {
		return nil, domain.NewResolveError(input, domain.ErrMalformedReference)
	}
	if !strings.Contains(src, "/") {
		return nil, domain.NewResolveError(input, domain.ErrNotEnoughArguments)
	}

	host, rest := r.matchSite(src)

	site, tld := r.normalizeSite(host)
	provider, ok := MatchProvider(site)
	if !ok {
		return nil, domain.NewResolveError(input, domain.ErrUnsupportedProvider)
	}

	m := r.userName.FindStringSubmatch(rest)
	if m == nil {
		return nil, domain.NewResolveError(input, domain.ErrMalformedReference)
	}
	user := m[1]
	name := strings.TrimSuffix(strings.TrimRight(m[2], "/"), ".git")
	if user == "" || name == "" {
		return nil, domain.NewResolveError(input, domain.ErrMissingSegment)
	}
	if strings.ContainsAny(name, " \t\r\n") || strings.HasPrefix(name, "/") {
		return nil, domain.NewResolveError(input, domain.ErrMalformedReference)
	}
	rest = rest[len(m[0]):]

	subdirectory := domain.WholeRepository
	if sm := r.subdir.FindStringSubmatch(rest); sm != nil {
		subdirectory = sm[1]
		rest = rest[len(sm[0]):]
	}

	ref := domain.DefaultRef
	if fm := r.fragment.FindStringSubmatch(rest); fm != nil {
		if fm[1] != "" {
			ref = fm[1]
		}
		// Later fragments are ignored.
		rest = ""
	}

	if rest != "" {
		return nil, domain.NewResolveError(input, domain.ErrMalformedReference)
	}

	hostname := domainFor(site, tld)
	return &domain.RepositoryRef{
		Input:        input,
		Site:         site,
		Provider:     provider,
		User:         user,
		Name:         name,
		Ref:          ref,
		Subdirectory: subdirectory,
		Domain:       hostname,
		URL:          "https://" + hostname + "/" + user + "/" + name,
		SSH:          "git@" + hostname + ":" + user + "/" + name,
		Mode:         domain.ModeTar,
	}, nil
}

// matchSite returns the site token and the remaining input. A site matcher
// only applies when what follows it still looks like user/name; otherwise the
// next matcher is tried, ending with the default site.
func (r *Resolver) matchSite(src string) (site, rest string) {
	for _, sm := range r.sites {
		m := sm.pattern.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		remainder := src[len(m[0]):]
		if r.userName.MatchString(remainder) {
			return m[1], remainder
		}
	}
	return DefaultSite, src
}

// normalizeSite lowercases the site token and strips one trailing .com or .org
func (r *Resolver) normalizeSite(host string) (site, tld string) {
	site = strings.ToLower(host)
	for _, suffix := range r.tldSuffixes {
		if strings.HasSuffix(site, suffix) {
			return strings.TrimSuffix(site, suffix), suffix
		}
	}
	return site, ""
}

// domainFor rebuilds the host name. A bare alias gets ".com"; a full host
// keeps whatever suffix it had.
func domainFor(site, tld string) string {
	if tld != "" {
		return site + tld
	}
	if strings.Contains(site, ".") {
		return site
	}
	return site + ".com"
}

// MatchProvider reports which known provider the site belongs to.
// The test is substring containment, so self-hosted "gitlab.example" counts as GitLab.
func MatchProvider(site string) (domain.Provider, bool) {
	for _, p := range domain.KnownProviders {
		if strings.Contains(site, string(p)) {
			return p, true
		}
	}
	return "", false
}
