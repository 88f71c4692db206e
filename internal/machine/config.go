package machine

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"

	"github.com/KyeeHuang/mit-jos/kernel/mem"
	"github.com/KyeeHuang/mit-jos/kernel/mem/pmm/allocator"
	"github.com/KyeeHuang/mit-jos/kernel/mem/vmm"
)

// defaultFixture describes a 128M qemu machine running the JOS kernel after
// its memory manager has been initialized.
//
//go:embed jos.toml
var defaultFixture []byte

// Addr is a physical or virtual address read from a fixture file. Addresses
// can be written as decimal or 0x-prefixed hex numbers.
type Addr uint64

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 0, 64)
	if err != nil {
		return errors.Errorf("invalid address %q", text)
	}

	*a = Addr(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Addr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected an address", node.Line)
	}
	return a.UnmarshalText([]byte(node.Value))
}

// Config describes the state of a machine: its physical memory map, the
// location of the kernel image and the mappings installed in its page
// directory.
type Config struct {
	Kernel   KernelConfig    `toml:"kernel" yaml:"kernel"`
	Regions  []RegionConfig  `toml:"regions" yaml:"regions"`
	Mappings []MappingConfig `toml:"mappings" yaml:"mappings"`
}

// KernelConfig holds the addresses of the kernel linker symbols.
type KernelConfig struct {
	Start    Addr `toml:"start" yaml:"start"`
	Entry    Addr `toml:"entry" yaml:"entry"`
	Etext    Addr `toml:"etext" yaml:"etext"`
	Edata    Addr `toml:"edata" yaml:"edata"`
	End      Addr `toml:"end" yaml:"end"`
	KernBase Addr `toml:"kernbase" yaml:"kernbase"`
}

// RegionConfig describes a physical memory region. Type is one of the
// allocator.RegionType names.
type RegionConfig struct {
	Base   Addr   `toml:"base" yaml:"base"`
	Length Addr   `toml:"length" yaml:"length"`
	Type   string `toml:"type" yaml:"type"`
}

// MappingConfig maps Pages consecutive virtual pages starting at VA to the
// physical frames starting at PA. Perm lists the permission letters of the
// mapped pages; the present bit is always set.
type MappingConfig struct {
	VA    Addr   `toml:"va" yaml:"va"`
	PA    Addr   `toml:"pa" yaml:"pa"`
	Pages uint64 `toml:"pages" yaml:"pages"`
	Perm  string `toml:"perm" yaml:"perm"`
}

// DefaultConfig returns the built-in machine description.
func DefaultConfig() *Config {
	cfg, err := decodeTOML(defaultFixture)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads a machine description from path. The file format is
// selected by its extension: .toml, .yaml or .yml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	var cfg *Config
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		cfg, err = decodeTOML(data)
	case ".yaml", ".yml":
		cfg, err = decodeYAML(data)
	default:
		return nil, errors.Errorf("%s: unsupported fixture format %q", path, ext)
	}

	if err != nil {
		return nil, errors.WrapPrefix(err, path, 0)
	}
	return cfg, nil
}

func decodeTOML(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(err, 1)
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, errors.Errorf("unknown key %q", undecoded[0].String())
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeYAML(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, 1)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the machine description is consistent.
func (cfg *Config) Validate() error {
	k := cfg.Kernel
	if k.End < k.Entry || k.Entry < k.KernBase || k.Etext < k.Entry || k.Edata < k.Etext || k.End < k.Edata {
		return errors.Errorf("kernel symbols must satisfy kernbase <= entry <= etext <= edata <= end")
	}

	if k.End > Addr(vmm.MaxVirtAddr) {
		return errors.Errorf("kernel end 0x%x is outside the virtual address space", uint64(k.End))
	}

	if len(cfg.Regions) == 0 {
		return errors.Errorf("at least one memory region is required")
	}

	for index, region := range cfg.Regions {
		if _, ok := allocator.ParseRegionType(region.Type); !ok {
			return errors.Errorf("region %d: unknown type %q", index, region.Type)
		}

		if index > 0 && region.Base < cfg.Regions[index-1].Base+cfg.Regions[index-1].Length {
			return errors.Errorf("region %d: regions must be sorted and must not overlap", index)
		}
	}

	for index, mapping := range cfg.Mappings {
		switch {
		case mapping.Pages == 0:
			return errors.Errorf("mapping %d: pages must be greater than zero", index)
		case mapping.VA%Addr(mem.PageSize) != 0 || mapping.PA%Addr(mem.PageSize) != 0:
			return errors.Errorf("mapping %d: addresses must be page-aligned", index)
		case uint64(mapping.VA)+mapping.Pages<<mem.PageShift > uint64(vmm.MaxVirtAddr)+1:
			return errors.Errorf("mapping %d: virtual range exceeds the address space", index)
		case uint64(mapping.PA)+mapping.Pages<<mem.PageShift > uint64(vmm.MaxVirtAddr)+1:
			return errors.Errorf("mapping %d: physical range exceeds the address space", index)
		}
	}

	return nil
}

// regions converts the configured regions into allocator regions.
func (cfg *Config) regions() []allocator.Region {
	out := make([]allocator.Region, 0, len(cfg.Regions))
	for _, region := range cfg.Regions {
		typ, _ := allocator.ParseRegionType(region.Type)
		out = append(out, allocator.Region{
			PhysAddress: uint64(region.Base),
			Length:      uint64(region.Length),
			Type:        typ,
		})
	}
	return out
}
