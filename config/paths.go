package config

import (
	"os"
	"path/filepath"
)

// Paths resolves the four suffix-namespaced subdirectories spec.md §6.4
// names beneath --data-dir.
type Paths struct {
	DataDir string
	Suffix  string
}

func NewPaths(dataDir, suffix string) Paths {
	return Paths{DataDir: dataDir, Suffix: suffix}
}

func (p Paths) ChainDir() string { return filepath.Join(p.DataDir, "chain-"+p.Suffix, "full") }
func (p Paths) IPCDir() string   { return filepath.Join(p.DataDir, "ipcs-"+p.Suffix) }
func (p Paths) PIDDir() string   { return filepath.Join(p.DataDir, "pids-"+p.Suffix) }
func (p Paths) LogDir() string   { return filepath.Join(p.DataDir, "logs-"+p.Suffix) }

// MkdirAll creates every directory the layout needs, with mode 0o755
// matching the teacher's own datadir bootstrap in node.New.
func (p Paths) MkdirAll() error {
	for _, dir := range []string{p.ChainDir(), p.IPCDir(), p.PIDDir(), p.LogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
