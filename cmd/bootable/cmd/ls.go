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
	"fmt"

	"github.com/spf13/cobra"
)

func DefineLsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ls [path...]",
		Short:        "List directories in the disk image's embedded file system",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE:         RunLs,
	}
	cmd.Flags().Bool("partitions", false, "list the disk's GPT entries instead of a directory")
	return cmd
}

func RunLs(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"/"}
	}

	listPartitions, _ := cmd.Flags().GetBool("partitions")

	b, err := openBuilder(cmd)
	if err != nil {
		return err
	}
	defer b.Close()

	if listPartitions {
		partitions, err := b.Partitions()
		if err != nil {
			return err
		}
		for _, p := range partitions {
			fmt.Printf("partition %d : name=%q type=%s offset=%d size=%d\n", p.Index, p.Name, p.TypeUUID, p.Offset, p.Size)
		}
		return nil
	}

	for _, path := range paths {
		dirs, files, err := b.List(path)
		if err != nil {
			return err
		}

		fmt.Printf("%s:\n", path)
		for _, d := range dirs {
			fmt.Printf("dir  : %s\n", d)
		}
		for _, f := range files {
			fmt.Printf("file : %s\n", f)
		}
	}
	return nil
}
