package network

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[network]
name = "local"
id = 9
max-array-entries = 512

[store]
path = "values.db"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Params{Name: "local", ID: 9, MaxArrayEntries: 512}
	if c.Network != want {
		t.Errorf("network = %+v, want %+v", c.Network, want)
	}
	abs, _ := filepath.Abs(dir)
	if c.Dir != abs {
		t.Errorf("dir = %q, want %q", c.Dir, abs)
	}
	if c.Store.Path != filepath.Join(abs, "values.db") {
		t.Errorf("store path = %q, want it resolved against %q", c.Store.Path, abs)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[store]
path = "/tmp/q.db"
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Network != Testnet {
		t.Errorf("network = %+v, want testnet", c.Network)
	}
	if c.Store.Path != "/tmp/q.db" {
		t.Errorf("store path = %q, want /tmp/q.db", c.Store.Path)
	}
}

func TestLoadConfigInheritsKnownNetwork(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[network]
name = "devnet"
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Network != Devnet {
		t.Errorf("network = %+v, want devnet", c.Network)
	}

	writeConfig(t, dir, `
[network]
name = "devnet"
max-array-entries = 4
`)
	c, err = Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Network.MaxArrayEntries != 4 || c.Network.ID != Devnet.ID {
		t.Errorf("network = %+v, want devnet capped at 4", c.Network)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string]string{
		"zero capacity":  "[network]\nname = \"devnet\"\nmax-array-entries = 0\n",
		"unknown no cap": "[network]\nname = \"local\"\n",
		"no name":        "[network]\nmax-array-entries = 3\n",
		"unknown key":    "[network]\nname = \"devnet\"\nmax-entries = 3\n",
	}
	for name, content := range tests {
		dir := t.TempDir()
		writeConfig(t, dir, content)
		if _, err := Load(dir); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("%s: got %v, want ErrInvalidParams", name, err)
		}
	}

	dir := t.TempDir()
	writeConfig(t, dir, "[network\n")
	if _, err := Load(dir); err == nil {
		t.Error("malformed toml loaded")
	}
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("missing file loaded")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[network]\nname = \"devnet\"\n")
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	c, err := FindAndLoad(sub)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil || c.Network != Devnet {
		t.Fatalf("FindAndLoad = %+v, want devnet", c)
	}
}

func TestFindAndLoadMissing(t *testing.T) {
	// t.TempDir lives under the system temp dir, which has no quill.toml.
	c, err := FindAndLoad(t.TempDir())
	if err != nil || c != nil {
		t.Errorf("FindAndLoad = (%+v, %v), want (nil, nil)", c, err)
	}
}
