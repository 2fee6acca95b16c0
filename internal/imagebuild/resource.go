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

// Package imagebuild orchestrates turning a config.Config and a set of
// bootsector/loader resources into a finished disk image, and exposes
// the mutation operations (ls/cat/cp/mkdir) available against an
// already-built image's filesystem partition.
package imagebuild

import (
	"os"
	"path/filepath"

	"github.com/return-infinity/bootable/internal/bootrc"
	"github.com/return-infinity/bootable/internal/config"
)

const defaultResourcePath = "/opt/return-infinity/share/bootable/resources"

// dummyPartitionTypeUUID is the placeholder type UUID assigned to a
// user-configured extra partition, pending the type being made
// configurable. It is not a registered partition type.
const dummyPartitionTypeUUID = "6e65efa4-cfde-44cb-82a3-13d4c396e04c"

const (
	uuidStageTwo    = "daa1ab4e-7a2c-4404-8208-61a12c660382"
	uuidStageThree  = "32cfd7f2-0e0a-4908-8d3b-16d7fb3a3c57"
	uuidFileSystem  = "f7439905-43da-4df0-b863-1f456e008b58"
)

// stageTwoDataSize is the fixed reservation, in bytes, given to the
// stage-two bootloader partition/segment regardless of the resource's
// actual size. The MBR boot code loads this many bytes, so the
// reservation cannot shrink to fit a smaller resource.
const stageTwoDataSize = 4096

func resourceRoot(cfg *config.Config) string {
	if cfg.ResourcePath != "" {
		return cfg.ResourcePath
	}
	if env := os.Getenv("BOOTABLE_RESOURCE_PATH"); env != "" {
		return env
	}
	return defaultResourcePath
}

func resourcePath(cfg *config.Config, suffix string) string {
	return filepath.Join(resourceRoot(cfg), suffix)
}

func readResource(cfg *config.Config, suffix string) ([]byte, error) {
	path := resourcePath(cfg, suffix)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bootrc.Wrap(bootrc.KindNotFound, err, "reading resource %q", path)
	}
	return data, nil
}

// bootsectorResource returns the resource suffix path holding bs's
// bootsector image. The "mulitboot" spellings below are the literal
// file names the installed resource tree ships, misspellings and all;
// renaming them here would break every existing install.
func bootsectorResource(bs config.Bootsector) (string, error) {
	switch bs {
	case config.BootsectorMBR:
		return "x86_64/bootsectors/mbr.sys", nil
	case config.BootsectorPXE:
		return "x86_64/bootsectors/pxestart.sys", nil
	case config.BootsectorMultiboot:
		return "x86_64/bootsectors/mulitboot.sys", nil
	case config.BootsectorMultiboot2:
		return "x86_64/bootsectors/mulitboot2.sys", nil
	default:
		return "", bootrc.New(bootrc.KindInvalidArgument, "bootsector %v has no resource file", bs)
	}
}

const stageTwoResource = "x86_64/bootable.sys"
const fsLoaderResource = "x86_64/fs-loader.sys"

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bootrc.Wrap(bootrc.KindNotFound, err, "reading %q", path)
	}
	return data, nil
}
