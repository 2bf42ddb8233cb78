package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
)

// New builds the medium and wraps it in a Store.
//
//	store, err := shelf.New("./data", shelf.WithAutoInit(true))
//
// The URI argument is adapter-specific (a directory for 'fs', a database file for 'sqlite').
func New(uri string, opts ...Option) (*core.Store, error) {
	o := buildOptions(opts)

	storeOpts, err := o.storeOptions()
	if err != nil {
		return nil, err
	}

	medium, err := initMedium(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}
	return core.NewStore(medium, storeOpts...), nil
}

func (o *options) storeOptions() ([]core.StoreOption, error) {
	opts := []core.StoreOption{core.WithLogger(o.logger)}

	strategy, _ := o.config["id_strategy"].(string)
	switch strings.ToLower(strategy) {
	case "", "timestamp":
	case "uuid":
		opts = append(opts, core.WithIDGenerator(core.UUIDIDs{}))
	default:
		return nil, fmt.Errorf("unknown id strategy: %s", strategy)
	}

	return append(opts, o.storeOpts...), nil
}
