// Command blobcache is a small demo CLI over the blobcache library: get,
// set, delete, list keys, and report stats against a single cache file.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

func run(out, errOut *os.File, args []string) int {
	if len(args) == 0 {
		printUsage(out)
		return 1
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "get":
		return cmdGet(out, errOut, rest)
	case "set":
		return cmdSet(out, errOut, rest)
	case "delete":
		return cmdDelete(out, errOut, rest)
	case "keys":
		return cmdKeys(out, errOut, rest)
	case "stats":
		return cmdStats(out, errOut, rest)
	case "vacuum":
		return cmdVacuum(out, errOut, rest)
	case "-h", "--help", "help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "blobcache: unknown command %q\n", cmd)
		printUsage(errOut)
		return 1
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: blobcache <command> --path <file> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  get     <key>          Print the value stored under key")
	fmt.Fprintln(w, "  set     <key> <value>  Store value as a string, optionally with --ttl")
	fmt.Fprintln(w, "  delete  <key>          Remove key")
	fmt.Fprintln(w, "  keys                   List all keys")
	fmt.Fprintln(w, "  stats                  Print hit/miss counters and fragmentation")
	fmt.Fprintln(w, "  vacuum                 Force a compaction pass")
}
