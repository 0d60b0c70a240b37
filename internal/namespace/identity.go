package namespace

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind discriminates the two ways a namespace can be addressed.
type Kind int

const (
	// KindInvalid is the zero Kind: neither id nor binding is set, or both are.
	KindInvalid Kind = iota
	// KindID addresses a namespace by its opaque id.
	KindID
	// KindBinding addresses a namespace by the binding name in a project manifest.
	KindBinding
)

func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindBinding:
		return "binding"
	default:
		return "invalid"
	}
}

// ErrInvalid is returned by Validate for identities that are neither a valid
// id nor a valid binding.
var ErrInvalid = errors.New("namespace needs exactly one of id or binding")

// Identity describes a namespace. Exactly one of ID and Binding is set.
type Identity struct {
	ID       string `json:"id,omitempty"`
	Binding  string `json:"binding,omitempty"`
	Preview  *bool  `json:"preview,omitempty"` // nil = environment default
	Local    bool   `json:"local,omitempty"`
	BasePath string `json:"base_path,omitempty"`
}

// ByID returns an identity addressing a namespace by opaque id.
func ByID(id string) Identity {
	return Identity{ID: id}
}

// ByBinding returns an identity addressing a namespace by binding name.
func ByBinding(binding string) Identity {
	return Identity{Binding: binding}
}

// WithPreview returns a copy of i with the preview selector set explicitly.
func (i Identity) WithPreview(preview bool) Identity {
	i.Preview = &preview
	return i
}

// WithLocal returns a copy of i targeting the locally simulated store.
func (i Identity) WithLocal(local bool) Identity {
	i.Local = local
	return i
}

// WithBasePath returns a copy of i rooted at the given project directory.
func (i Identity) WithBasePath(path string) Identity {
	i.BasePath = path
	return i
}

// Kind reports which variant i is.
func (i Identity) Kind() Kind {
	switch {
	case i.ID != "" && i.Binding == "":
		return KindID
	case i.Binding != "" && i.ID == "":
		return KindBinding
	default:
		return KindInvalid
	}
}

// Validate returns ErrInvalid unless exactly one of ID and Binding is set.
func (i Identity) Validate() error {
	if i.Kind() == KindInvalid {
		return fmt.Errorf("%w (id=%q, binding=%q)", ErrInvalid, i.ID, i.Binding)
	}
	return nil
}

// EffectivePreview resolves the preview selector.
// An unset selector means preview for local namespaces and production otherwise.
func (i Identity) EffectivePreview() bool {
	if i.Preview != nil {
		return *i.Preview
	}
	return i.Local
}

// Equal reports whether a and b address the same namespace.
// Id, binding, effective preview and locality must match; base path is ignored.
func Equal(a, b Identity) bool {
	return a.ID == b.ID &&
		a.Binding == b.Binding &&
		a.EffectivePreview() == b.EffectivePreview() &&
		a.Local == b.Local
}

// Equal is shorthand for Equal(i, other).
func (i Identity) Equal(other Identity) bool {
	return Equal(i, other)
}

// CacheKey returns the canonical cache address of key (or prefix) within i.
// The identity part is escaped, so the first "/" always separates it from key.
func (i Identity) CacheKey(key string) string {
	return i.scope() + "/" + key
}

// scope encodes the fields Equal compares, so two identities share cache
// addresses exactly when they are equal. Base path only selects the working
// directory of the store command.
func (i Identity) scope() string {
	var b strings.Builder
	switch i.Kind() {
	case KindID:
		b.WriteString("id:")
		b.WriteString(url.PathEscape(i.ID))
	case KindBinding:
		b.WriteString("binding:")
		b.WriteString(url.PathEscape(i.Binding))
	default:
		b.WriteString("invalid:")
		b.WriteString(url.PathEscape(i.ID + "|" + i.Binding))
	}
	fmt.Fprintf(&b, ";preview=%t;local=%t", i.EffectivePreview(), i.Local)
	return b.String()
}

// String renders i for humans, e.g. "binding CACHE (preview, local)".
func (i Identity) String() string {
	var name string
	switch i.Kind() {
	case KindID:
		name = "id " + i.ID
	case KindBinding:
		name = "binding " + i.Binding
	default:
		return "invalid namespace"
	}

	var tags []string
	if i.EffectivePreview() {
		tags = append(tags, "preview")
	}
	if i.Local {
		tags = append(tags, "local")
	}
	if len(tags) == 0 {
		return name
	}
	return name + " (" + strings.Join(tags, ", ") + ")"
}
