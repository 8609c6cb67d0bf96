package dither

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/dither/utils"
	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

var (
	// srcExtensions lists the decodable source files.
	srcExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif", ".webp"}
	// dstExtensions lists the formats the dithered image can be encoded to.
	dstExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}
)

// Ops holds the source and destination of a dithering run.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
}

// result holds the relevant information about the dithering process and the generated image.
type result struct {
	path    string
	results []Result
	err     error
}

// Execute executes the dithering process. The source can be an image file, a directory
// walked recursively, an URL or the pipe name. When every method is requested the
// destination is a directory receiving one file per method.
func (p *Processor) Execute(op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ DITHER", utils.StatusMessage),
		utils.DecorateText("⇢ dithering image...", utils.DefaultMessage),
	)
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(defaultMsg, time.Millisecond*80)
	}

	src := op.Src
	// Check if source path is a local image or URL.
	if utils.IsValidUrl(op.Src) {
		f, err := utils.DownloadImage(op.Src)
		if f != nil {
			defer os.Remove(f.Name())
			f.Close()
		}
		if err != nil {
			return errors.Wrap(err, "failed to load the source image")
		}
		src = f.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return errors.Wrap(err, "failed to load the source image")
	}

	all := strings.EqualFold(p.Method, AllMethods)
	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		if op.Dst == op.PipeName {
			return errors.New("a directory source needs a destination directory")
		}
		if err := os.MkdirAll(op.Dst, 0755); err != nil {
			return errors.Wrap(err, "unable to create the destination directory")
		}

		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, src, srcExtensions)
		pool := workerpool.New(op.Workers)

		go func() {
			defer close(ch)
			for path := range paths {
				path := path
				pool.Submit(func() {
					res := op.consume(p, path, all)
					select {
					case <-done:
					case ch <- res:
					}
				})
			}
			pool.StopWait()
		}()

		p.Spinner.Start()
		var failed int
		for res := range ch {
			if res.err != nil {
				failed++
			}
			op.printOpStatus(res.path, res.results, res.err)
		}
		p.Spinner.Stop()

		if err := <-errc; err != nil {
			return err
		}
		if failed > 0 {
			return errors.Errorf("%d image(s) could not be dithered", failed)
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		var res []Result
		p.Spinner.Start()
		if all {
			if op.Dst == op.PipeName {
				p.Spinner.Stop()
				return errors.New("the all method needs a destination directory")
			}
			res, err = op.processAll(p, src, op.Dst, baseName(op.Src))
		} else {
			ext := filepath.Ext(op.Dst)
			if !isValidExtension(strings.ToLower(ext), dstExtensions) && op.Dst != op.PipeName {
				p.Spinner.Stop()
				return errors.Errorf("%v file type not supported", ext)
			}
			err = op.process(p, src, op.Dst)
		}
		p.Spinner.Stop()
		op.printOpStatus(op.Dst, res, err)
		if err != nil {
			return err
		}

	default:
		return errors.Errorf("unsupported source: %s", op.Src)
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

// consume dithers a single file found in the source directory.
func (op *Ops) consume(p *Processor, path string, all bool) result {
	if all {
		res, err := op.processAll(p, path, op.Dst, baseName(path))
		return result{path: path, results: res, err: err}
	}
	name := filepath.Base(path)
	if ext := filepath.Ext(name); !isValidExtension(strings.ToLower(ext), dstExtensions) {
		// no encoder for this format, fall back to png
		name = strings.TrimSuffix(name, ext) + ".png"
	}
	dst := filepath.Join(op.Dst, name)
	return result{path: path, err: op.process(p, path, dst)}
}

// process calls the dithering method over the source image and returns the error in case exists.
func (op *Ops) process(p *Processor, in, out string) error {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	stop := op.catchSignal(p, dst)
	defer stop()

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				log.WithError(err).Warn("could not close the opened file")
			}
		}
	}()

	if out == op.PipeName {
		return p.Process(src, dst)
	}

	err = p.Process(src, dst)
	if cerr := dst.(*os.File).Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		// remove the generated image file in case of an error
		os.Remove(dst.(*os.File).Name())
	}
	return err
}

// processAll runs every dithering method over the source image.
func (op *Ops) processAll(p *Processor, in, dir, name string) ([]Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "unable to create the destination directory")
	}

	var src io.Reader
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		f, err := os.Open(in)
		if err != nil {
			return nil, errors.Wrap(err, "unable to open the source file")
		}
		defer f.Close()
		src = f
	}
	return p.ProcessAll(context.Background(), src, dir, name)
}

// catchSignal restores the cursor and removes the partially written file on interruption.
// The returned function releases the signal handler.
func (op *Ops) catchSignal(p *Processor, dst io.Writer) func() {
	signalChan := make(chan os.Signal, 1)
	quit := make(chan struct{})
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-signalChan:
			p.Spinner.RestoreCursor()
			if f, ok := dst.(*os.File); ok && f != os.Stdout {
				os.Remove(f.Name())
			}
			os.Exit(1)
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(signalChan)
			close(quit)
		})
	}
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to open the source file")
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, errors.Wrap(err, "unable to create the destination file")
		}
	}
	return src, dst, nil
}

// printOpStatus displays the relevant information about the dithering process.
func (op *Ops) printOpStatus(fname string, results []Result, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n%s %s\n",
			utils.DecorateText("Error dithering the image:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s\n\tReason: %v", fname, err), utils.DefaultMessage),
		)
		return
	}
	if fname == op.PipeName {
		return
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
		return
	}

	fmt.Fprintf(os.Stderr, "\nThe dithered images have been saved into: %s\n",
		utils.DecorateText(fname, utils.SuccessMessage),
	)
	for _, res := range results {
		fmt.Fprintf(os.Stderr, "\t%-18s %s\n", res.Name,
			utils.DecorateText(utils.FormatTime(res.Elapsed), utils.StatusMessage),
		)
		log.WithFields(log.Fields{
			"variant": res.Name,
			"elapsed": res.Elapsed,
		}).Info("time taken")
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(strings.ToLower(filepath.Ext(f.Name())), srcExts) {
				return nil
			}

			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// baseName returns the file name without directory and extension.
func baseName(path string) string {
	if utils.IsValidUrl(path) {
		path = strings.SplitN(path, "?", 2)[0]
	}
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "-" || name == "." || name == string(filepath.Separator) {
		return "image"
	}
	return name
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
