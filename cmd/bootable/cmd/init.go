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

func DefineInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Build a new disk image from a configuration file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunInit,
	}
	return cmd
}

func RunInit(cmd *cobra.Command, args []string) error {
	diskPath, _ := cmd.Flags().GetString("disk")
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, logLevel(cmd))

	b := imagebuild.New(cfg, log)
	defer b.Close()

	if err := b.CreateDisk(diskPath); err != nil {
		return err
	}

	log.Infof("created disk image %s", diskPath)
	return nil
}
