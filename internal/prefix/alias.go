package prefix

import (
	"regexp"
	"strings"
)

var (
	githubBlob     = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/blob/(.+)`)
	versionAtRepo  = regexp.MustCompile(`^(\S+?)@github:([^/]+)/([^/]+)/(.+)`)
	githubAtRepo   = regexp.MustCompile(`^github@([^/]+)/([^/]+)/([^/]+)/(.+)`)
	repoAtVersion  = regexp.MustCompile(`^github:([^/]+)/([^/]+)/(.+)@(\S+?)$`)
	prefixedSuffix = regexp.MustCompile(`^(\w+):(.*)$`)
)

const rawGitHub = "https://raw.githubusercontent.com/"

// ExpandAlias turns a short reference to a remote template into a URL.
// Accepted forms:
//
//	https://github.com/user/repo/blob/version/file
//	version@github:user/repo/file
//	github@user/repo/version/file
//	github:user/repo/file@version
//	http://... and https://... (returned unchanged)
//	prefix:suffix, resolved with the loaded prefixes
//	prefix, resolved with the loaded prefixes
func (r *Resolver) ExpandAlias(token string) (string, error) {
	if m := githubBlob.FindStringSubmatch(token); m != nil {
		return rawGitHub + m[1] + "/" + m[2] + "/" + m[3], nil
	}
	if strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://") {
		return token, nil
	}
	if m := versionAtRepo.FindStringSubmatch(token); m != nil {
		return rawGitHub + m[2] + "/" + m[3] + "/" + m[1] + "/" + m[4], nil
	}
	if m := githubAtRepo.FindStringSubmatch(token); m != nil {
		return rawGitHub + m[1] + "/" + m[2] + "/" + m[3] + "/" + m[4], nil
	}
	if m := repoAtVersion.FindStringSubmatch(token); m != nil {
		return rawGitHub + m[1] + "/" + m[2] + "/" + m[4] + "/" + m[3], nil
	}

	name, suffix := token, ""
	if m := prefixedSuffix.FindStringSubmatch(token); m != nil {
		name, suffix = m[1], m[2]
	}
	iri, ok := r.Lookup(name)
	if !ok {
		return "", &UnresolvedPrefixError{Prefix: name}
	}
	return iri + suffix, nil
}
