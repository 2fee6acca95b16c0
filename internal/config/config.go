// Copyright (c) 2025 The Bootable Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package config reads the small key=value configuration file that
// drives a disk image build: architecture, bootsector kind, partition
// scheme, disk/filesystem sizes, and an optional list of extra
// partitions. The format is deliberately small: the builder only ever
// needs a handful of scalar fields and a flat partition list, not
// arbitrary expressions, so this is a line-oriented scanner rather than
// a full configuration language.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/pkg/humanize"
)

// Bootsector identifies which bootsector resource occupies LBA 0 (and,
// for PXE, the sector immediately after).
type Bootsector int

const (
	BootsectorNone Bootsector = iota
	BootsectorMBR
	BootsectorPXE
	BootsectorMultiboot
	BootsectorMultiboot2
)

// Size returns the on-disk size, in bytes, reserved for bootsector b.
// The PXE start code spans two sectors; every other bootsector fits in
// one.
func (b Bootsector) Size() uint64 {
	if b == BootsectorPXE {
		return 1024
	}
	return 512
}

func ParseBootsector(s string) (Bootsector, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return BootsectorNone, nil
	case "mbr":
		return BootsectorMBR, nil
	case "pxe":
		return BootsectorPXE, nil
	case "multiboot":
		return BootsectorMultiboot, nil
	case "multiboot2":
		return BootsectorMultiboot2, nil
	default:
		return BootsectorNone, bootrc.New(bootrc.KindInvalidArgument, "unknown bootsector %q", s)
	}
}

// PartitionScheme identifies how the disk's partitions are laid out.
type PartitionScheme int

const (
	PartitionSchemeNone PartitionScheme = iota
	PartitionSchemeGPT
)

func ParsePartitionScheme(s string) (PartitionScheme, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return PartitionSchemeNone, nil
	case "gpt":
		return PartitionSchemeGPT, nil
	default:
		return PartitionSchemeNone, bootrc.New(bootrc.KindInvalidArgument, "unknown partition scheme %q", s)
	}
}

// Partition describes one user-requested additional partition. File,
// Offset and SizeSpecified/OffsetSpecified are parsed and retained, but
// nothing downstream acts on them yet: the image builder records only
// the name and a placeholder type for each extra partition.
type Partition struct {
	Name            string
	File            string
	Size            uint64
	SizeSpecified   bool
	Offset          uint64
	OffsetSpecified bool
}

// Config is a parsed disk-build configuration.
type Config struct {
	Arch             string
	Bootsector       Bootsector
	PartitionScheme  PartitionScheme
	FSLoader         bool
	DiskSize         uint64
	FSSize           uint64
	KernelPath       string
	ResourcePath     string
	Partitions       []Partition
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, bootrc.Wrap(bootrc.KindNotFound, err, "opening config %q", path)
	}
	defer f.Close()

	cfg := &Config{
		Bootsector:      BootsectorMBR,
		PartitionScheme: PartitionSchemeGPT,
		DiskSize:        1 << 20,
		FSSize:          512 << 10,
	}
	var current *Partition

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == "[partition]" {
			cfg.Partitions = append(cfg.Partitions, Partition{})
			current = &cfg.Partitions[len(cfg.Partitions)-1]
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, bootrc.New(bootrc.KindInvalidArgument, "malformed config line %q", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if current != nil {
			if err := setPartitionField(current, key, value); err != nil {
				return nil, err
			}
			continue
		}

		if err := setConfigField(cfg, key, value); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, bootrc.Wrap(bootrc.KindIO, err, "reading config %q", path)
	}

	return cfg, cfg.Validate()
}

func setConfigField(cfg *Config, key, value string) error {
	switch key {
	case "arch":
		cfg.Arch = value
	case "bootsector":
		bs, err := ParseBootsector(value)
		if err != nil {
			return err
		}
		cfg.Bootsector = bs
	case "partition_scheme":
		ps, err := ParsePartitionScheme(value)
		if err != nil {
			return err
		}
		cfg.PartitionScheme = ps
	case "fs_loader":
		cfg.FSLoader = value == "true" || value == "1" || value == "yes"
	case "disk_size":
		n, err := humanize.ParseBytes(value)
		if err != nil {
			return err
		}
		cfg.DiskSize = n
	case "fs_size":
		n, err := humanize.ParseBytes(value)
		if err != nil {
			return err
		}
		cfg.FSSize = n
	case "kernel_path":
		cfg.KernelPath = value
	case "resource_path":
		cfg.ResourcePath = value
	default:
		return bootrc.New(bootrc.KindInvalidArgument, "unknown config key %q", key)
	}
	return nil
}

func setPartitionField(p *Partition, key, value string) error {
	switch key {
	case "name":
		p.Name = value
	case "file":
		p.File = value
	case "size":
		n, err := humanize.ParseBytes(value)
		if err != nil {
			return err
		}
		p.Size = n
		p.SizeSpecified = true
	case "offset":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return bootrc.New(bootrc.KindInvalidArgument, "invalid partition offset %q", value)
		}
		p.Offset = n
		p.OffsetSpecified = true
	default:
		return bootrc.New(bootrc.KindInvalidArgument, "unknown partition key %q", key)
	}
	return nil
}

// Validate checks the invariants the image builder relies on: arch is
// required, fs_loader forces an MBR bootsector, and without an fs
// loader a kernel path is mandatory.
func (c *Config) Validate() error {
	if c.Arch == "" {
		return bootrc.New(bootrc.KindInvalidArgument, "config is missing \"arch\"")
	}
	if c.FSLoader && c.Bootsector != BootsectorMBR {
		return bootrc.New(bootrc.KindInvalidArgument, "fs_loader requires bootsector = mbr")
	}
	if !c.FSLoader && c.KernelPath == "" {
		return bootrc.New(bootrc.KindInvalidArgument, "kernel_path is required when fs_loader is disabled")
	}
	return nil
}
