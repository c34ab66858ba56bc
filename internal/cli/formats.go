// Copyright (c) 2025 Stefano Scafiti
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
package cli

import (
	"encoding/hex"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/arcflux/diskcarve/internal/sigscan"
	"github.com/spf13/cobra"
)

func DefineFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "formats",
		Short:        "List the signature catalog this build can recognise",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunFormats,
	}
}

func RunFormats(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXT\tDESC\tHEADER\tTRAILER")

	for _, sig := range sigscan.DefaultCatalog {
		trailer := "-"
		if sig.HasTrailer {
			trailer = hex.EncodeToString(sig.TrailerMagic)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			sig.Extension,
			sig.Description,
			hex.EncodeToString(sig.HeaderMagic),
			trailer,
		)
	}
	return w.Flush()
}
