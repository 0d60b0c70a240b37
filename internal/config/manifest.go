package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"

	"github.com/raphi011/kvview/internal/namespace"
)

// KVNamespace is one kv_namespaces binding of a worker manifest.
type KVNamespace struct {
	Env       string `toml:"-" json:"env,omitempty"` // "" for the top level
	Binding   string `toml:"binding" json:"binding"`
	ID        string `toml:"id" json:"id,omitempty"`
	PreviewID string `toml:"preview_id" json:"preview_id,omitempty"`
}

// Namespace returns the identity selecting this binding from dir.
func (n KVNamespace) Namespace(dir string) namespace.Identity {
	return namespace.ByBinding(n.Binding).WithBasePath(dir)
}

// Manifest is the part of a worker's wrangler.toml or wrangler.json that
// kvview reads.
type Manifest struct {
	Path       string
	Name       string
	Namespaces []KVNamespace
}

type rawManifest struct {
	Name         string        `toml:"name"`
	KVNamespaces []KVNamespace `toml:"kv_namespaces"`
	Env          map[string]struct {
		KVNamespaces []KVNamespace `toml:"kv_namespaces"`
	} `toml:"env"`
}

// ManifestFiles are the manifest names looked up by LoadManifest, in order.
var ManifestFiles = []string{"wrangler.toml", "wrangler.json"}

// LoadManifest reads the worker manifest in dir.
// Returns nil (no error) if there is none.
func LoadManifest(dir string) (*Manifest, error) {
	for _, name := range ManifestFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
		}
		if filepath.Ext(name) == ".json" {
			return parseJSONManifest(path, data)
		}
		return parseTOMLManifest(path, data)
	}
	return nil, nil
}

func parseTOMLManifest(path string, data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	m := &Manifest{Path: path, Name: raw.Name, Namespaces: raw.KVNamespaces}
	envs := make([]string, 0, len(raw.Env))
	for env := range raw.Env {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	for _, env := range envs {
		for _, ns := range raw.Env[env].KVNamespaces {
			ns.Env = env
			m.Namespaces = append(m.Namespaces, ns)
		}
	}
	return m, nil
}

func parseJSONManifest(path string, data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse manifest %s: invalid JSON", path)
	}
	doc := gjson.ParseBytes(data)

	m := &Manifest{Path: path, Name: doc.Get("name").String()}
	collect := func(env string, list gjson.Result) {
		list.ForEach(func(_, item gjson.Result) bool {
			m.Namespaces = append(m.Namespaces, KVNamespace{
				Env:       env,
				Binding:   item.Get("binding").String(),
				ID:        item.Get("id").String(),
				PreviewID: item.Get("preview_id").String(),
			})
			return true
		})
	}
	collect("", doc.Get("kv_namespaces"))

	envs := map[string]gjson.Result{}
	var names []string
	doc.Get("env").ForEach(func(key, value gjson.Result) bool {
		envs[key.String()] = value
		names = append(names, key.String())
		return true
	})
	sort.Strings(names)
	for _, env := range names {
		collect(env, envs[env].Get("kv_namespaces"))
	}
	return m, nil
}
