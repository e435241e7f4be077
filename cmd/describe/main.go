// Command describe reports on the bundle manifests in a workspace tree:
// package fields in table, CSV or JSON form, feature resolution for a
// single package, and one-shot or watched validation.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fsnotify/fsnotify"

	"github.com/meridian-nav/meridian/internal/version"
	"github.com/meridian-nav/meridian/manifest"
)

var (
	rootDir     = flag.String("root", ".", "workspace root to scan for manifests")
	pkgFilter   = flag.String("package", "", "restrict output to the named package")
	fieldSpec   = flag.String("fields", "", "comma-separated fields to report (default: all)")
	format      = flag.String("format", "table", "output format: table, csv, or json")
	features    = flag.String("features", "", "resolve these comma-separated features for -package")
	noDefaults  = flag.Bool("no-default-features", false, "do not implicitly resolve the default feature")
	validate    = flag.Bool("validate", false, "validate every discovered manifest")
	watch       = flag.Bool("watch", false, "with -validate, re-run when a manifest changes")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("describe", version.String())
		return
	}

	packages, err := manifest.Discover(*rootDir)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if len(packages) == 0 {
		log.Fatalf("No manifests found under %s", *rootDir)
	}

	switch {
	case *validate:
		if *watch {
			if err := watchValidate(*rootDir); err != nil {
				log.Fatalf("Error: %v", err)
			}
			return
		}
		if !runValidate(packages) {
			os.Exit(1)
		}
	case *features != "":
		if err := runResolve(packages); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		if err := runDescribe(packages); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}
}

func selectPackages(packages []*manifest.PackageInfo) []*manifest.PackageInfo {
	if *pkgFilter == "" {
		return packages
	}
	var out []*manifest.PackageInfo
	for _, p := range packages {
		if p.Manifest.Package.Name == *pkgFilter {
			out = append(out, p)
		}
	}
	return out
}

func runDescribe(packages []*manifest.PackageInfo) error {
	packages = selectPackages(packages)
	if len(packages) == 0 {
		return fmt.Errorf("package %q not found", *pkgFilter)
	}
	fields, err := ParseFields(*fieldSpec)
	if err != nil {
		return err
	}

	switch *format {
	case "table":
		return writeTable(os.Stdout, fields, packages)
	case "csv":
		return writeCSV(os.Stdout, fields, packages)
	case "json":
		return writeJSON(os.Stdout, fields, packages)
	default:
		return fmt.Errorf("unknown format %q: expected table, csv, or json", *format)
	}
}

func writeTable(w io.Writer, fields []Field, packages []*manifest.PackageInfo) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	titles := make([]string, len(fields))
	for i, f := range fields {
		titles[i] = f.Title()
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))
	for _, p := range packages {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f.Value(p)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, fields []Field, packages []*manifest.PackageInfo) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Title()
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range packages {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f.Value(p)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, fields []Field, packages []*manifest.PackageInfo) error {
	out := make([]map[string]string, 0, len(packages))
	for _, p := range packages {
		row := make(map[string]string, len(fields))
		for _, f := range fields {
			row[string(f)] = f.Value(p)
		}
		out = append(out, row)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runResolve(packages []*manifest.PackageInfo) error {
	packages = selectPackages(packages)
	if *pkgFilter == "" && len(packages) > 1 {
		return fmt.Errorf("-features requires -package when the workspace has multiple packages")
	}
	if len(packages) == 0 {
		return fmt.Errorf("package %q not found", *pkgFilter)
	}
	m := packages[0].Manifest

	var enabled []string
	for _, f := range strings.Split(*features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			enabled = append(enabled, f)
		}
	}

	var res *manifest.Resolution
	var err error
	if *noDefaults {
		res, err = m.Resolve(enabled...)
	} else {
		res, err = m.ResolveWithDefaults(enabled...)
	}
	if err != nil {
		return err
	}

	fmt.Printf("package %s v%s\n", m.Package.Name, m.Package.Version)
	fmt.Printf("features: %s\n", strings.Join(res.Features, ", "))

	deps := make([]string, 0, len(res.Dependencies))
	for dep := range res.Dependencies {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	fmt.Println("dependencies:")
	for _, dep := range deps {
		if feats := res.Dependencies[dep]; len(feats) > 0 {
			fmt.Printf("  %s (%s)\n", dep, strings.Join(feats, ", "))
		} else {
			fmt.Printf("  %s\n", dep)
		}
	}
	return nil
}

func runValidate(packages []*manifest.PackageInfo) bool {
	failures := manifest.ValidateAll(packages)
	if len(failures) == 0 {
		fmt.Printf("%d manifests OK\n", len(packages))
		return true
	}
	names := make([]string, 0, len(failures))
	for name := range failures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, failures[name])
	}
	return false
}

// watchValidate re-runs workspace validation whenever a manifest file
// changes under root. It blocks until the watcher fails.
func watchValidate(root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	revalidate := func() {
		packages, err := manifest.Discover(root)
		if err != nil {
			log.Printf("discovery failed: %v", err)
			return
		}
		runValidate(packages)
	}

	// Watch each package directory so edits to existing manifests and new
	// manifests in known directories both trigger.
	packages, err := manifest.Discover(root)
	if err != nil {
		return err
	}
	dirs := map[string]bool{}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	dirs[absRoot] = true
	for _, p := range packages {
		dirs[p.Dir] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	revalidate()
	log.Printf("watching %d directories for manifest changes", len(dirs))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != manifest.FileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Printf("%s %s", event.Op, event.Name)
			revalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}
