package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/descry/descry/cache"
	"github.com/descry/descry/jsonrpc"
)

func runDescribe(options Options) error {
	endpoint := options.Describe.Args.Endpoint
	if endpoint == "" {
		return errors.New("missing endpoint argument")
	}

	store, err := openCache(options.Describe.Cache, options.Describe.CacheDir)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()

		raw, err := store.Get(endpoint)
		if err == nil {
			desc, err := jsonrpc.ParseServiceDescription(raw)
			if err == nil {
				logger.Debugf("Using cached manifest for: %s", endpoint)
				printDescription(desc)
				return nil
			}
			logger.Warningf("Discarding invalid cached manifest for %s: %s", endpoint, err)
		} else if err != cache.ErrNotFound {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	transport, err := dialTransport(ctx, options.Describe.Impl, endpoint)
	if err != nil {
		return err
	}
	defer transport.Close()

	client, err := jsonrpc.NewClient(ctx, transport, jsonrpc.Timeout(options.Describe.Timeout))
	if err != nil {
		return err
	}
	desc := client.ServiceDescription()
	if store != nil {
		if err := store.Set(endpoint, desc.JSON()); err != nil {
			logger.Warningf("Failed to cache manifest for %s: %s", endpoint, err)
		}
	}
	printDescription(desc)
	return nil
}

func printDescription(desc *jsonrpc.ServiceDescription) {
	header := desc.Name
	if header == "" {
		header = "(unnamed service)"
	}
	if desc.Version != "" {
		header += " " + desc.Version
	}
	fmt.Println(header)
	for _, proc := range desc.Procedures() {
		fmt.Println(" ", proc)
	}
}
