package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/descry/descry/cache"
	"github.com/descry/descry/jsonrpc"
)

func runCall(options Options) error {
	endpoint := options.Call.Args.Endpoint
	method := options.Call.Args.Method
	if endpoint == "" {
		return errors.New("missing endpoint argument")
	}
	if method == "" {
		return errors.New("missing method argument")
	}

	store, err := openCache(options.Call.Cache, options.Call.CacheDir)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	transport, err := dialTransport(ctx, options.Call.Impl, endpoint)
	if err != nil {
		return err
	}
	defer transport.Close()

	client, err := connectClient(ctx, transport, store, endpoint, options.Call.Timeout)
	if err != nil {
		return err
	}

	args := append([]string{method}, options.Call.Args.Params...)
	result, err := client.CallStrings(context.Background(), args)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// connectClient builds a client from a cached manifest when one is available,
// avoiding the describe round trip; otherwise it describes and caches.
func connectClient(ctx context.Context, transport jsonrpc.Transport, store cache.Store, endpoint string, timeout time.Duration) (*jsonrpc.Client, error) {
	if store != nil {
		raw, err := store.Get(endpoint)
		if err == nil {
			desc, err := jsonrpc.ParseServiceDescription(raw)
			if err == nil {
				logger.Debugf("Using cached manifest for: %s", endpoint)
				return jsonrpc.NewClientWithDescription(transport, desc, jsonrpc.Timeout(timeout)), nil
			}
			logger.Warningf("Discarding invalid cached manifest for %s: %s", endpoint, err)
		} else if err != cache.ErrNotFound {
			return nil, err
		}
	}

	client, err := jsonrpc.NewClient(ctx, transport, jsonrpc.Timeout(timeout))
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.Set(endpoint, client.ServiceDescription().JSON()); err != nil {
			logger.Warningf("Failed to cache manifest for %s: %s", endpoint, err)
		}
	}
	return client, nil
}
