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
package cmd

import (
	"os"

	"github.com/return-infinity/bootable/internal/config"
	"github.com/return-infinity/bootable/internal/imagebuild"
	"github.com/return-infinity/bootable/internal/logger"
	"github.com/spf13/cobra"
)

const AppName = "bootable"

// logLevel returns DebugLevel when --verbose was passed, InfoLevel
// otherwise.
func logLevel(cmd *cobra.Command) logger.Level {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logger.DebugLevel
	}
	return logger.InfoLevel
}

// openBuilder loads the config file named by --config and opens the
// disk image named by --disk, returning a Builder ready for ls/cat/cp/mkdir.
func openBuilder(cmd *cobra.Command) (*imagebuild.Builder, error) {
	diskPath, _ := cmd.Flags().GetString("disk")
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(os.Stderr, logLevel(cmd))

	b := imagebuild.New(cfg, log)
	if err := b.OpenDisk(diskPath); err != nil {
		return nil, err
	}
	return b, nil
}

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - bootable disk image builder and inspector",
		Long: AppName + ` builds legacy-BIOS bootable disk images from a configuration
file and manipulates the file system embedded in an already-built
image. An image holds an MBR boot sector, a GUID partition table, the
second- and third-stage loader payloads, and optionally a Pure64 file
system partition that the remaining commands operate on.`,
		Example: `  bootable --config bootable-config.txt --disk bootable.img init
  bootable ls /
  bootable mkdir /etc
  bootable cp hostfile /etc/config
  bootable cat /etc/config`,
	}

	rootCmd.PersistentFlags().StringP("disk", "d", "bootable.img", "path to the disk image")
	rootCmd.PersistentFlags().StringP("config", "c", "bootable-config.txt", "path to the build configuration file")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at debug level")

	rootCmd.AddCommand(DefineInitCommand())
	rootCmd.AddCommand(DefineLsCommand())
	rootCmd.AddCommand(DefineCatCommand())
	rootCmd.AddCommand(DefineCpCommand())
	rootCmd.AddCommand(DefineMkdirCommand())

	return rootCmd.Execute()
}
