// Command iom2hvif converts Icon-O-Matic authoring archives (.iom) into
// Haiku Vector Icon Format blobs, either as standalone .hvif files or
// written directly onto a target's vector-icon attribute.
package main

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"

	"github.com/threedeyes/hvif-tools/archive"
	"github.com/threedeyes/hvif-tools/hvif"
	"github.com/threedeyes/hvif-tools/internal/dedup"
	"github.com/threedeyes/hvif-tools/model"
	"github.com/threedeyes/hvif-tools/xattr"
)

// maxInputFiles caps a single batch run; the remainder are dropped with
// one warning rather than silently processed or fatally rejected.
const maxInputFiles = 2048

const defaultAttrName = "BEOS:ICON"

func usage() {
	prog := os.Args[0]
	fmt.Fprintf(os.Stderr, `Usage:
  %[1]s [options] <file.iom> [file2.iom ...]

Options:
  -o <file.hvif>       Write to HVIF file (requires single input)
  -a <target>          Write to target's attribute (requires single input)
  --attr-name <name>   Attribute name (default: %[2]s)
  -v, --verbose        Verbose output
  -h, --help           Show this help

Batch mode (default):
  %[1]s myicon.iom             - Write icon to myicon.iom's attribute
  %[1]s *.iom                  - Process all .iom files
  %[1]s icon1.iom icon2.iom    - Process multiple files

Single file mode:
  %[1]s -o app.hvif app.iom    - Convert to HVIF file
  %[1]s -a MyApp app.iom       - Write to MyApp's attribute
  %[1]s -a /path/to/file icon.iom

Formats:
  .iom  - Icon-O-Matic native format (BMessage-based)
  .hvif - Haiku Vector Icon Format (compact binary)

Limits: up to %[3]d files per batch
`, prog, defaultAttrName, maxInputFiles)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the full flag surface by hand rather than through
// package flag's parser: -a and input files interleave in the original
// tool's argument grammar in a way flag.FlagSet can't express (a single
// pass must distinguish "-a" the option from a bare input path), so this
// mirrors the reference tool's manual switch loop instead.
func run(args []string) int {
	var (
		outputPath string
		attrTarget string
		attrName   = env.Str("HVIF_ATTR_NAME", defaultAttrName)
		verbose    = env.Bool("HVIF_VERBOSE")
		inputFiles []string
		warnedMax  bool
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			usage()
			return 0
		case "-v", "--verbose":
			verbose = true
		case "-o":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -o requires an argument")
				return 1
			}
			i++
			outputPath = args[i]
		case "-a":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -a requires an argument")
				return 1
			}
			i++
			attrTarget = args[i]
		case "--attr-name":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --attr-name requires an argument")
				return 1
			}
			i++
			attrName = args[i]
		default:
			if len(inputFiles) >= maxInputFiles {
				if !warnedMax {
					fmt.Fprintf(os.Stderr, "Warning: Maximum %d files supported, ignoring the rest\n", maxInputFiles)
					warnedMax = true
				}
				continue
			}
			inputFiles = append(inputFiles, args[i])
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input file(s) specified")
		fmt.Fprintln(os.Stderr)
		usage()
		return 1
	}

	if outputPath != "" && attrTarget != "" {
		fmt.Fprintln(os.Stderr, "Error: Cannot use both -o and -a")
		return 1
	}

	if (outputPath != "" || attrTarget != "") && len(inputFiles) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -o and -a require exactly one input file")
		return 1
	}

	sys := xattr.NewSystem()

	if outputPath != "" || attrTarget != "" {
		return processSingle(sys, inputFiles[0], outputPath, attrTarget, attrName, verbose)
	}
	return processBatch(sys, inputFiles, attrName, verbose)
}

// importAndEncode reads and decodes an authoring archive from path and
// flat-encodes the result. Non-fatal import warnings (a shape referencing a
// dropped style or path) are reported on stderr in verbose mode but do not
// fail the conversion; only a fatal import error or an encode error does.
func importAndEncode(path string, verbose bool) (*model.Icon, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	icon, warnings := archive.Import(f)
	if icon == nil {
		if len(warnings) > 0 {
			return nil, nil, warnings[0]
		}
		return nil, nil, fmt.Errorf("import produced no icon")
	}
	if verbose {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "  Warning: %v\n", w)
		}
	}

	blob, err := hvif.Encode(icon)
	if err != nil {
		return nil, nil, err
	}

	return icon, blob, nil
}

func processSingle(sys xattr.WriterReader, inputPath, outputPath, attrTarget, attrName string, verbose bool) int {
	if verbose {
		fmt.Printf("Processing: %s\n", inputPath)
	}

	icon, blob, err := importAndEncode(inputPath, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to import '%s': %v\n", inputPath, err)
		return 1
	}

	if verbose {
		fmt.Printf("  Styles: %d, Paths: %d, Shapes: %d\n", len(icon.Styles), len(icon.Paths), len(icon.Shapes))
		fmt.Printf("  Encoded %d bytes, digest %016x\n", len(blob), dedup.Hash(blob))
	}

	if outputPath != "" {
		if verbose {
			fmt.Printf("  Writing to: %s\n", outputPath)
		}
		if err := os.WriteFile(outputPath, blob, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Export failed: %v\n", err)
			return 1
		}
		return 0
	}

	if verbose {
		fmt.Printf("  Writing attribute '%s' to: %s\n", attrName, attrTarget)
	}
	if err := sys.WriteAttr(attrTarget, attrName, xattr.TypeVectorIcon, blob); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Attribute write failed: %v\n", err)
		return 1
	}
	return 0
}

func processBatch(sys xattr.WriterReader, files []string, attrName string, verbose bool) int {
	succeeded, failed := 0, 0

	for i, path := range files {
		if verbose {
			fmt.Printf("Processing [%d/%d]: %s\n", i+1, len(files), path)
		}

		icon, blob, err := importAndEncode(path, verbose)
		if err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "  Failed to import: %v\n", err)
			}
			failed++
			continue
		}

		if verbose {
			fmt.Printf("  Styles: %d, Paths: %d, Shapes: %d\n", len(icon.Styles), len(icon.Paths), len(icon.Shapes))
		}

		if err := sys.WriteAttr(path, attrName, xattr.TypeVectorIcon, blob); err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "  Failed to write attribute: %v\n", err)
			}
			failed++
			continue
		}

		if verbose {
			fmt.Println("  Done")
		}
		succeeded++
	}

	if len(files) > 1 || failed > 0 {
		fmt.Printf("\nProcessed %d file(s): %d succeeded, %d failed\n", len(files), succeeded, failed)
	}

	if failed > 0 {
		return 1
	}
	return 0
}
