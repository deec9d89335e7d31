// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Kind is the family of a remote paper identifier.
type Kind string

const (
	KindArxiv Kind = "arxiv"
	KindDOI   Kind = "doi"
	KindURL   Kind = "url"
)

var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	doiBase      = "https://doi.org/"
)

var (
	arxivID = regexp.MustCompile(`^(?i:arxiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)
	doiID   = regexp.MustCompile(`^(?i:doi:)?(10\.\d{4,9}/\S+)$`)
)

// Identifier is a parsed remote paper reference. Value has any "arXiv:" or
// "doi:" prefix removed.
type Identifier struct {
	Kind  Kind
	Value string
}

func (id Identifier) String() string { return string(id.Kind) + ":" + id.Value }

// ParseIdentifier recognizes arXiv IDs ("2301.07041", "arXiv:2301.07041v2"),
// DOIs ("10.1145/3292500.3330701", "doi:...") and absolute http(s) URLs.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if m := arxivID.FindStringSubmatch(s); m != nil {
		return Identifier{Kind: KindArxiv, Value: m[1]}, nil
	}
	if m := doiID.FindStringSubmatch(s); m != nil {
		return Identifier{Kind: KindDOI, Value: m[1]}, nil
	}
	u, err := url.Parse(s)
	if err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return Identifier{Kind: KindURL, Value: s}, nil
	}
	return Identifier{}, fmt.Errorf("%q is neither a readable file nor an arXiv ID, DOI or URL", s)
}

// Source returns the URL the paper is downloaded from when no better
// location is known. DOIs go through the doi.org resolver.
func (id Identifier) Source() string {
	switch id.Kind {
	case KindArxiv:
		return arxivPDFBase + id.Value
	case KindDOI:
		return doiBase + id.Value
	}
	return id.Value
}

// FileStem returns a filesystem-safe base name for the downloaded file.
// URLs use their last path element, or a hash when that is empty.
func (id Identifier) FileStem() string {
	switch id.Kind {
	case KindArxiv:
		return id.Value
	case KindDOI:
		return strings.NewReplacer("/", "_", ":", "_").Replace(id.Value)
	}
	if u, err := url.Parse(id.Value); err == nil {
		base := path.Base(u.Path)
		if stem := strings.TrimSuffix(base, path.Ext(base)); stem != "" && stem != "." && stem != "/" {
			return stem
		}
	}
	sum := sha256.Sum256([]byte(id.Value))
	return "paper-" + hex.EncodeToString(sum[:6])
}
