// Command asps is a standalone driver for the asp embedding API: it loads a
// bytecode file, seals it, and steps the engine to completion, the way
// golang-debug's cmd/viewcore drives a core.Core/gocore.Core pair from a
// single command-line invocation.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/s2"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/asplang/asp-sub001/appspec"
	"github.com/asplang/asp-sub001/asp"
)

const scriptSuffix = ".aspe"

var (
	verbose     bool
	codeBytes   int
	dataCells   int
	appspecPath string
	useMmap     bool
	compressed  bool
)

func main() {
	root := &cobra.Command{
		Use:   "asps script [args...]",
		Short: "run an asp bytecode script",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return argError{err}
			}
			return nil
		},
		RunE: run,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return argError{err} })
	root.Flags().BoolVarP(&verbose, "v", "v", false, "print engine version, code version, and low-free count before exit")
	root.Flags().IntVarP(&codeBytes, "c", "c", 0, "code memory size hint, in bytes")
	root.Flags().IntVarP(&dataCells, "d", "d", 1024, "number of data arena cells")
	root.Flags().StringVar(&appspecPath, "appspec", "", "path to a YAML AppSpec manifest describing host functions")
	root.Flags().BoolVar(&useMmap, "mmap", false, "memory-map the script file instead of reading it into a plain buffer")
	root.Flags().BoolVar(&compressed, "compressed", false, "script file is s2-compressed; run it in paged mode over the decompressed bytes")
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		if _, ok := err.(argError); ok {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

type argError struct{ error }

const demoPageSize = 4096
const demoPageCount = 8

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	var spec *appspec.Spec
	var err error
	if appspecPath != "" {
		spec, err = appspec.Load(appspecPath)
		if err != nil {
			return argError{fmt.Errorf("loading appspec: %w", err)}
		}
	}

	var e *asp.Engine
	if compressed {
		decompressed, err := loadCompressedScript(path)
		if err != nil {
			return argError{err}
		}
		e = asp.NewPagedEngine(dataCells, spec, args[1:], demoPageSize, demoPageCount, path, func(_ any, offset uint32, dest []byte) (int, error) {
			if int(offset) >= len(decompressed) {
				return 0, nil
			}
			return copy(dest, decompressed[offset:]), nil
		})
	} else {
		code, err := loadScript(path, useMmap)
		if err != nil {
			return argError{err}
		}
		e = asp.NewEngine(dataCells, spec, args[1:])
		if res := e.AddCode(code); res != asp.AddCodeOK {
			return fmt.Errorf("add code: %v", res)
		}
	}

	if res := e.Seal(); res != asp.AddCodeOK {
		return fmt.Errorf("seal: %v", res)
	}

	var result asp.RunResult
	for e.IsRunning() {
		result = e.Step()
		if result == asp.Complete || result != asp.OK {
			break
		}
	}

	if verbose {
		ev := asp.EngineVersion()
		cv := e.CodeVersion()
		fmt.Printf("engine version: %d.%d.%d.%d\n", ev[0], ev[1], ev[2], ev[3])
		fmt.Printf("code version: %d.%d.%d.%d\n", cv[0], cv[1], cv[2], cv[3])
		fmt.Printf("low free count: %d\n", e.LowFreeCount())
	}

	if result != asp.Complete {
		return fmt.Errorf("run result: %v", result)
	}
	return nil
}

// loadScript reads path, falling back to path+scriptSuffix when the exact
// name doesn't exist, per spec.md 6's ".aspe" rule.
func loadScript(path string, mmap bool) ([]byte, error) {
	resolved := path
	if _, err := os.Stat(resolved); os.IsNotExist(err) {
		resolved = path + scriptSuffix
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if !mmap {
		buf := make([]byte, info.Size())
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	return unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
}

// loadCompressedScript reads path (falling back to path+scriptSuffix the
// same as loadScript) and decompresses it as a whole s2 frame, for the
// --compressed demo path that exercises codepage's paged Reader against an
// otherwise-oversized program kept compressed on disk.
func loadCompressedScript(path string) ([]byte, error) {
	resolved := path
	if _, err := os.Stat(resolved); os.IsNotExist(err) {
		resolved = path + scriptSuffix
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out bytes.Buffer
	if _, err := io.Copy(&out, s2.NewReader(f)); err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", resolved, err)
	}
	return out.Bytes(), nil
}
