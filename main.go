package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/alexcesaro/log"
	"github.com/alexcesaro/log/golog"
	badgerdb "github.com/dgraph-io/badger/v2"
	flags "github.com/jessevdk/go-flags"

	"github.com/descry/descry/cache"
	badgerstore "github.com/descry/descry/cache/badger"
	"github.com/descry/descry/cache/memory"
	"github.com/descry/descry/jsonrpc"
	"github.com/descry/descry/ws/gobwas"
	"github.com/descry/descry/ws/gorilla"
)

// Version of the binary, assigned during build.
var Version string = "dev"

// dialTimeout bounds the initial connect and describe exchange.
var dialTimeout = time.Second * 5

// Options contains the flag options
type Options struct {
	Verbose []bool `short:"v" long:"verbose" description:"Show verbose logging."`
	Version bool   `long:"version" description:"Print version and exit."`

	Describe struct {
		Args struct {
			Endpoint string `positional-arg-name:"endpoint" description:"Websocket endpoint of the remote service, e.g. ws://localhost:8080/"`
		} `positional-args:"yes"`
		Impl     string        `long:"impl" description:"Websocket implementation to dial with. (gorilla|gobwas)" default:"gorilla"`
		Cache    string        `long:"cache" description:"Manifest cache driver. (none|memory|persist)" default:"none"`
		CacheDir string        `long:"cache-dir" description:"Override the persistent cache directory."`
		Timeout  time.Duration `long:"timeout" description:"Per-call timeout, 0 to disable." default:"5s"`
	} `command:"describe" description:"Print the remote service's procedure manifest."`

	Call struct {
		Args struct {
			Endpoint string   `positional-arg-name:"endpoint" description:"Websocket endpoint of the remote service."`
			Method   string   `positional-arg-name:"method" description:"Procedure name to invoke."`
			Params   []string `positional-arg-name:"params" description:"Procedure arguments, coerced per the manifest."`
		} `positional-args:"yes"`
		Impl     string        `long:"impl" description:"Websocket implementation to dial with. (gorilla|gobwas)" default:"gorilla"`
		Cache    string        `long:"cache" description:"Manifest cache driver. (none|memory|persist)" default:"none"`
		CacheDir string        `long:"cache-dir" description:"Override the persistent cache directory."`
		Timeout  time.Duration `long:"timeout" description:"Per-call timeout, 0 to disable." default:"5s"`
	} `command:"call" description:"Invoke a remote procedure and print the result."`

	Serve struct {
		Bind    string `long:"bind" description:"Address and port to listen on." default:"127.0.0.1:8080"`
		TLSHost string `long:"tls-host" description:"Hostname to use for acquiring a LetsEncrypt certificate, binds to port 443."`
		Impl    string `long:"impl" description:"Websocket implementation to serve with. (gorilla|gobwas)" default:"gorilla"`
	} `command:"serve" description:"Serve the built-in calculator service over websockets."`
}

var logLevels = []log.Level{
	log.Warning,
	log.Info,
	log.Debug,
}

func subcommand(cmd string, options Options) error {
	switch cmd {
	case "describe":
		return runDescribe(options)
	case "call":
		return runCall(options)
	case "serve":
		return runServe(options)
	}
	return nil
}

func main() {
	options := Options{}
	parser := flags.NewParser(&options, flags.Default)
	p, err := parser.Parse()
	if err != nil {
		if p == nil {
			fmt.Println(err)
		}
		return
	}

	if options.Version {
		fmt.Println(Version)
		os.Exit(0)
	}

	// Figure out the log level
	numVerbose := len(options.Verbose)
	if numVerbose > len(logLevels) {
		numVerbose = len(logLevels) - 1
	}

	logLevel := logLevels[numVerbose]
	logWriter := os.Stderr

	SetLogger(golog.New(logWriter, logLevel))
	if logLevel == log.Debug {
		// Enable logging from subpackages
		jsonrpc.SetLogger(logWriter)
		gorilla.SetLogger(logWriter)
		gobwas.SetLogger(logWriter)
	}

	cmd := "describe"
	if parser.Active != nil {
		cmd = parser.Active.Name
	}
	err = subcommand(cmd, options)
	if err == nil {
		return
	}

	if err == io.EOF {
		exit(3, "Connection closed.\n")
	}

	switch typedErr := err.(type) {
	case net.Error:
		err = ErrExplain{err, `Could not reach the remote endpoint. Is the address correct and the service running?`}
	case jsonrpc.ProcedureNotFoundError:
		err = ErrExplain{err, `The remote service does not declare this procedure at this arity. Use "descry describe" to list what is available.`}
	case jsonrpc.TimeoutError:
		err = ErrExplain{err, `The remote service did not reply in time. Raise --timeout or check on the service.`}
	case interface{ ErrorCode() int }:
		err = ErrExplain{err, fmt.Sprintf(`The remote service rejected the call: %T (code %d).`, typedErr, typedErr.ErrorCode())}
	case ErrExplain:
		// All good.
	}

	if err != nil {
		exit(2, "%s failed: %s\n", cmd, err)
	}
}

func exit(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

// ErrExplain annotates an error with an explanation.
type ErrExplain struct {
	Cause       error
	Explanation string
}

func (err ErrExplain) Error() string {
	return fmt.Sprintf("%s\n -> %s", err.Cause, err.Explanation)
}

// transportCloser is a dialed transport that is released when the command
// finishes.
type transportCloser interface {
	jsonrpc.Transport
	Close() error
}

func dialTransport(ctx context.Context, impl string, endpoint string) (transportCloser, error) {
	switch impl {
	case "gobwas":
		return gobwas.Dial(ctx, endpoint)
	default:
		return gorilla.Dial(ctx, endpoint)
	}
}

func openCache(driver string, overrideDir string) (cache.Store, error) {
	switch driver {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.New(), nil
	case "persist", "badger":
		dir := overrideDir
		if dir == "" {
			dir = filepath.Join(xdg.New("descry", "").CacheHome(), "manifests")
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, err
		}
		opts := badgerdb.DefaultOptions(dir)
		opts.Logger = nil
		logger.Infof("Opening manifest cache: %s", dir)
		return badgerstore.Open(opts)
	}
	return nil, fmt.Errorf("unknown cache driver: %q", driver)
}
