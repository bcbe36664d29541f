package main

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/acme/autocert"

	"github.com/descry/descry/internal/fakeservice"
	"github.com/descry/descry/jsonrpc"
	"github.com/descry/descry/ws/gobwas"
	"github.com/descry/descry/ws/gorilla"
)

func runServe(options Options) error {
	srv := &jsonrpc.Server{Name: "descry.calculator"}
	if err := srv.Register("", fakeservice.New()); err != nil {
		return err
	}

	var handler http.HandlerFunc
	switch options.Serve.Impl {
	case "gobwas":
		handler = gobwas.Handler(srv)
	default:
		handler = gorilla.Handler(srv)
	}

	if options.Serve.TLSHost != "" {
		if !strings.HasSuffix(options.Serve.Bind, ":443") {
			logger.Warningf("Ignoring --bind value (%q) because it's not 443 and --tls-host is set.", options.Serve.Bind)
		}
		logger.Infof("Starting calculator service (version %s), acquiring ACME certificate and listening on: wss://%s", Version, options.Serve.TLSHost)
		err := http.Serve(autocert.NewListener(options.Serve.TLSHost), handler)
		if err != nil && strings.HasSuffix(err.Error(), "bind: permission denied") {
			err = ErrExplain{err, "Serving with autocert requires CAP_NET_BIND_SERVICE capability permission to bind on low-numbered ports. See: https://superuser.com/questions/710253/allow-non-root-process-to-bind-to-port-80-and-443/892391"}
		}
		return err
	}

	logger.Infof("Starting calculator service (version %s), listening on: ws://%s", Version, options.Serve.Bind)
	return http.ListenAndServe(options.Serve.Bind, handler)
}
