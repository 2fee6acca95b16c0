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
	"github.com/spf13/cobra"
)

func DefineCpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cp <host-path> <image-path>",
		Short:        "Copy a file from the host into the disk image's embedded file system",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunCp,
	}
	return cmd
}

func RunCp(cmd *cobra.Command, args []string) error {
	b, err := openBuilder(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Copy(args[0], args[1]); err != nil {
		return err
	}

	return b.SaveDisk()
}
