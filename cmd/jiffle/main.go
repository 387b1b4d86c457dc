package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/jdries/jaitools/internal/config"
	"github.com/jdries/jaitools/internal/imageio"
	"github.com/jdries/jaitools/internal/scriptstore"
	"github.com/jdries/jaitools/pkg/jiffle"
	"github.com/jdries/jaitools/pkg/raster"
	"github.com/jdries/jaitools/pkg/runtime"
)

// storeDir holds the script library next to the working directory.
const storeDir = ".jiffle"

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  jiffle run <spec.yaml>            compile and run a script over its images
  jiffle source <spec.yaml>         print the generated procedure source
  jiffle save <name> <script> [model]  store a script in the library
  jiffle list                       list stored scripts`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "run":
		if len(os.Args) != 3 {
			usage()
		}
		err = runSpec(os.Args[2])
	case "source":
		if len(os.Args) != 3 {
			usage()
		}
		err = printSource(os.Args[2])
	case "save":
		if len(os.Args) < 4 || len(os.Args) > 5 {
			usage()
		}
		model := "direct"
		if len(os.Args) == 5 {
			model = os.Args[4]
		}
		err = saveScript(os.Args[2], os.Args[3], model)
	case "list":
		err = listScripts()
	default:
		usage()
	}

	if err != nil {
		fail("%v", err)
	}
}

// fail reports an error on stderr, in red when attached to a terminal.
func fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		msg = "\x1b[31m" + msg + "\x1b[0m"
	}
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

func compileSpec(specPath string) (*config.RunSpec, *jiffle.CompiledScript, error) {
	data, err := os.ReadFile(specPath)
	if err != nil {
		return nil, nil, err
	}
	spec, err := config.Parse(data, specPath)
	if err != nil {
		return nil, nil, err
	}
	script, err := os.ReadFile(spec.Script)
	if err != nil {
		return nil, nil, err
	}
	model, err := spec.EvaluationModel()
	if err != nil {
		return nil, nil, err
	}

	cs, err := jiffle.Compile(string(script), jiffle.Options{
		Name:         spec.Name,
		Model:        model,
		SourceImages: spec.SourceNames(),
		DestImages:   spec.DestNames(),
		Provided:     spec.ProvidedNames(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("compiling %s:\n%w", spec.Script, err)
	}
	return spec, cs, nil
}

func runSpec(specPath string) error {
	spec, cs, err := compileSpec(specPath)
	if err != nil {
		return err
	}

	env := runtime.NewEnv()
	var first *raster.Raster
	for name, path := range spec.Sources {
		src, err := imageio.ReadTIFF(path)
		if err != nil {
			return err
		}
		if first == nil {
			first = src
		}
		env.AddSource(name, src)
	}
	for name, dest := range spec.Dests {
		w, h, bands := dest.Width, dest.Height, dest.Bands
		if w == 0 || h == 0 {
			if first == nil {
				return fmt.Errorf("destination %q needs explicit bounds: no source image to inherit from", name)
			}
			w, h = first.Width(), first.Height()
		}
		if bands == 0 {
			bands = 1
		}
		env.AddDest(name, raster.New(w, h, bands))
	}
	for name, v := range spec.Provided {
		env.SetProvided(name, v)
	}

	if err := cs.Run(env); err != nil {
		return fmt.Errorf("running %s: %w", spec.Script, err)
	}

	for name, dest := range spec.Dests {
		if dest.Output == "" {
			continue
		}
		if err := imageio.WriteTIFF(dest.Output, env.Dest(name), 0); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", dest.Output)
	}
	return nil
}

func printSource(specPath string) error {
	spec, cs, err := compileSpec(specPath)
	if err != nil {
		return err
	}
	src, err := cs.Source()
	if err != nil {
		return err
	}

	// Keep the generated source in the library cache for inspection.
	if store, err := openStore(); err == nil {
		defer store.Close()
		script, _ := os.ReadFile(spec.Script)
		_ = store.CacheGenerated(string(script), spec.Model, cs.Name, src)
	}

	fmt.Print(src)
	return nil
}

func openStore() (*scriptstore.Store, error) {
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, err
	}
	return scriptstore.Open(filepath.Join(storeDir, "scripts.db"))
}

func saveScript(name, scriptPath, model string) error {
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(name, model, string(source))
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (%s)\n", name, id)
	return nil
}

func listScripts() error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	scripts, err := store.List()
	if err != nil {
		return err
	}
	for _, sc := range scripts {
		fmt.Printf("%-20s %-8s %s\n", sc.Name, sc.Model, sc.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
