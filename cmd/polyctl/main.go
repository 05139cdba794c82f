/*
   sparsepoly - sparse polynomials with real coefficients

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published by
   the Free Software Foundation, version 3.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// polyctl parses, combines, evaluates and stores sparse polynomials from the
// command line. Arguments starting with "-" must follow "--".
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sparsepoly/demo"
	"sparsepoly/poly"
)

var rootCmd = &cobra.Command{
	Use:           "polyctl",
	Short:         "Sparse polynomial arithmetic",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [poly...]",
	Short: "Print polynomials in canonical form",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := parseAll(args)
		if err != nil {
			return err
		}
		for _, p := range ps {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add [poly] [poly...]",
	Short: "Print the sum of polynomials",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fold(cmd, args, func(p, q *poly.Poly) (*poly.Poly, error) {
			return p.Add(q), nil
		})
	},
}

var mulCmd = &cobra.Command{
	Use:   "mul [poly] [poly...]",
	Short: "Print the product of polynomials",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return fold(cmd, args, (*poly.Poly).MulChecked)
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval [poly] [x...]",
	Short: "Evaluate a polynomial at one or more points",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, xs, err := parsePoints(args)
		if err != nil {
			return err
		}
		for _, x := range xs {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", p.Eval(x))
		}
		return nil
	},
}

var rootTestCmd = &cobra.Command{
	Use:   "root [poly] [x...]",
	Short: "Report whether a polynomial evaluates to exactly zero at each point",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, xs, err := parsePoints(args)
		if err != nil {
			return err
		}
		for _, x := range xs {
			if p.HasRoot(x) {
				fmt.Fprintf(cmd.OutOrStdout(), "%v is a root\n", x)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%v is not a root\n", x)
			}
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save [file] [poly]",
	Short: "Write a polynomial to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := poly.Parse(args[1])
		if err != nil {
			return err
		}
		return poly.Save(args[0], p)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Read a polynomial from a file and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := poly.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

var demoFile string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a walkthrough of the polynomial operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return demo.Run(cmd.OutOrStdout(), demoFile)
	},
}

func init() {
	demoCmd.Flags().StringVarP(&demoFile, "file", "f", "test.txt", "file to save and reload a polynomial through")
	rootCmd.AddCommand(fmtCmd, addCmd, mulCmd, evalCmd, rootTestCmd, saveCmd, loadCmd, demoCmd)
}

func parseAll(args []string) ([]*poly.Poly, error) {
	var result []*poly.Poly
	for _, arg := range args {
		p, err := poly.Parse(arg)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func parsePoints(args []string) (*poly.Poly, []float64, error) {
	p, err := poly.Parse(args[0])
	if err != nil {
		return nil, nil, err
	}
	var xs []float64
	for _, arg := range args[1:] {
		x, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "invalid point %q", arg)
		}
		xs = append(xs, x)
	}
	return p, xs, nil
}

func fold(cmd *cobra.Command, args []string, f func(p, q *poly.Poly) (*poly.Poly, error)) error {
	ps, err := parseAll(args)
	if err != nil {
		return err
	}
	result := ps[0]
	for _, q := range ps[1:] {
		result, err = f(result, q)
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "polyctl: %v\n", err)
		os.Exit(1)
	}
}
